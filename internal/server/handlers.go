package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coursekit/promogen/internal/content"
	"github.com/coursekit/promogen/internal/domain"
	"github.com/coursekit/promogen/internal/tenant"
)

// Generator is the GenerateContent operation.
type Generator interface {
	Generate(ctx context.Context, courseText string) (domain.StructuredContent, error)
}

// Authorizer is the authorization gate.
type Authorizer interface {
	Authorize(ctx context.Context, token, companyID string) (tenant.Identity, error)
}

// ProductFetcher is the tenant product listing.
type ProductFetcher interface {
	Fetch(ctx context.Context, id tenant.Identity) (domain.ProductList, error)
}

// Handlers exposes the two core operations plus a health check.
type Handlers struct {
	generator Generator
	gate      Authorizer
	fetcher   ProductFetcher
	aliases   map[string]string
	logger    *slog.Logger
}

// NewHandlers creates the handler set. aliases maps canonical content field
// names to their legacy names for schema rendering.
func NewHandlers(generator Generator, gate Authorizer, fetcher ProductFetcher, aliases map[string]string, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		generator: generator,
		gate:      gate,
		fetcher:   fetcher,
		aliases:   aliases,
		logger:    logger,
	}
}

// Register mounts the routes.
func (h *Handlers) Register(s *Server) {
	s.Router.Post("/api/analyze", h.HandleAnalyze)
	s.Router.Get("/api/products", h.HandleProducts)
	s.Router.Get("/health", h.HandleHealth)
}

type analyzeRequest struct {
	CourseText string `json:"courseText"`
	// Prompt is the legacy body key older collaborators still send.
	Prompt string `json:"prompt"`
}

// HandleAnalyze generates structured marketing content from course text.
// The collaborator declares its expected shape via the schema query
// parameter (v1, v2, or the dual-keyed default).
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domain.ErrInvalidRequest("invalid JSON body").WithCause(err))
		return
	}

	courseText := req.CourseText
	if strings.TrimSpace(courseText) == "" {
		courseText = req.Prompt
	}
	if strings.TrimSpace(courseText) == "" {
		h.writeError(w, r, domain.ErrInvalidRequest("course text must not be empty"))
		return
	}

	result, err := h.generator.Generate(r.Context(), courseText)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	schema := content.ParseSchema(r.URL.Query().Get("schema"))
	AddLogField(r.Context(), "schema", string(schema))

	h.writeJSON(w, http.StatusOK, content.Render(result, h.aliases, schema))
}

// HandleProducts lists the requested company's products for an authorized
// admin. The caller's token comes from the Authorization header (Bearer) or
// the X-User-Token header; the tenant from the companyId query parameter.
func (h *Handlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	companyID := r.URL.Query().Get("companyId")

	identity, err := h.gate.Authorize(r.Context(), token, companyID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	AddLogField(r.Context(), "company_id", identity.CompanyID)

	list, err := h.fetcher.Fetch(r.Context(), identity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

// HandleHealth reports liveness.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return auth
	}
	return r.Header.Get("X-User-Token")
}

type errorBody struct {
	Error struct {
		Kind    domain.ErrorType `json:"kind"`
		Code    domain.ErrorCode `json:"code,omitempty"`
		Message string           `json:"message"`
	} `json:"error"`
}

// writeError writes the classified error. The detailed message goes to the
// log; the response body carries only the taxonomy and a safe message, never
// raw upstream error text.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := domain.AsAPIError(err)
	if !ok {
		apiErr = domain.ErrInternal("internal error").WithCause(err)
	}

	requestID, _ := r.Context().Value(RequestIDKey).(string)
	h.logger.Error("request failed",
		slog.String("request_id", requestID),
		slog.String("kind", string(apiErr.Type)),
		slog.String("error", apiErr.Error()),
	)
	AddLogField(r.Context(), "error_kind", string(apiErr.Type))

	var body errorBody
	body.Error.Kind = apiErr.Type
	body.Error.Code = apiErr.Code
	body.Error.Message = userMessage(apiErr.Type)

	h.writeJSON(w, apiErr.HTTPStatusCode(), body)
}

func userMessage(t domain.ErrorType) string {
	switch t {
	case domain.ErrorTypeInvalidRequest:
		return "The request is invalid."
	case domain.ErrorTypeMissingCredential:
		return "A credential is missing or was rejected."
	case domain.ErrorTypeDenied:
		return "You do not have permission to perform this action."
	case domain.ErrorTypeNotFound:
		return "The requested resource was not found."
	case domain.ErrorTypeRateLimited:
		return "The service is rate limited. Try again later."
	case domain.ErrorTypeProviderExhausted:
		return "Content generation is temporarily unavailable."
	case domain.ErrorTypeMalformedOutput:
		return "Content generation produced an unusable result."
	case domain.ErrorTypeUpstreamUnavailable:
		return "An upstream service is unavailable. Try again."
	default:
		return "Internal server error."
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response", slog.String("error", err.Error()))
	}
}
