package adapters

import (
	"strings"

	paymentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/domain"
)

// Registry resolves gateway factories by provider name.
type Registry struct {
	factories map[string]paymentdomain.GatewayFactory
}

func NewRegistry(factories ...paymentdomain.GatewayFactory) *Registry {
	registry := &Registry{factories: make(map[string]paymentdomain.GatewayFactory, len(factories))}
	for _, factory := range factories {
		if factory == nil {
			continue
		}
		registry.factories[strings.ToLower(factory.Provider())] = factory
	}
	return registry
}

func (r *Registry) ProviderExists(provider string) bool {
	if r == nil {
		return false
	}
	_, ok := r.factories[strings.ToLower(strings.TrimSpace(provider))]
	return ok
}

func (r *Registry) NewGateway(provider string, config paymentdomain.GatewayConfig) (paymentdomain.Gateway, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return nil, paymentdomain.ErrInvalidProvider
	}
	if r == nil {
		return nil, paymentdomain.ErrProviderNotFound
	}
	factory, ok := r.factories[provider]
	if !ok {
		return nil, paymentdomain.ErrProviderNotFound
	}
	config.Provider = provider
	return factory.NewGateway(config)
}
