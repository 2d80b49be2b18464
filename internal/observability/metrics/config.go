package metrics

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

type Config struct {
	ServiceName string
	Environment string
}

var allowedAttributeKeys = map[attribute.Key]struct{}{
	"endpoint":    {},
	"status_code": {},
}

// FilterAttributes keeps only low-cardinality attribute keys.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedAttributeKeys[attr.Key]; !ok {
			continue
		}
		if strings.TrimSpace(attr.Value.Emit()) == "" {
			continue
		}
		out = append(out, attr)
	}
	return out
}
