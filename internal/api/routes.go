package api

import (
	"net/http"

	"github.com/JaimeStill/pdf-lab/internal/config"
	"github.com/JaimeStill/pdf-lab/internal/journal"
	"github.com/JaimeStill/pdf-lab/internal/tools"
	"github.com/JaimeStill/pdf-lab/internal/validation"
	"github.com/JaimeStill/pdf-lab/pkg/openapi"
	"github.com/JaimeStill/pdf-lab/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	spec *openapi.Spec,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	toolsHandler := tools.NewHandler(
		domain.Processor,
		domain.Validator,
		runtime.Pool,
		runtime.Recorder(),
		runtime.Responder,
		tools.Config{
			MaxRequestSize:     cfg.Files.MaxRequestSize(),
			MultipartMemory:    cfg.Files.MultipartMemoryBytes(),
			DefaultDPI:         cfg.Processing.DefaultImageDPI,
			DefaultCompression: validation.CompressionLevel(cfg.Processing.DefaultCompressionLevel),
		},
		runtime.Logger,
	)

	groups := []routes.Group{toolsHandler.Routes()}

	if runtime.Journal != nil {
		journalHandler := journal.NewHandler(
			runtime.Journal,
			runtime.Responder,
			cfg.Journal.Pagination,
			runtime.Logger,
		)
		groups = append(groups, journalHandler.Routes())
	}

	routes.Register(mux, cfg.API.BasePath, spec, groups...)
}
