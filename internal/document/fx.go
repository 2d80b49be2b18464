package document

import (
	"strings"

	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/config"
	documentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/repository"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/service"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/verifier"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(cfg config.Config) documentdomain.Verifier {
		if strings.TrimSpace(cfg.Document.VerifierURL) == "" {
			return verifier.Unavailable{}
		}
		return verifier.NewHTTPVerifier(cfg.Document.VerifierURL, cfg.Document.VerifierKey, nil)
	}),
	fx.Provide(service.NewService),
)
