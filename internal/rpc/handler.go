package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/user/notecards/internal/content"
)

const maxBodyBytes = 1 << 20

type procedure struct {
	// query procedures may also be called with GET ?input=<json>.
	query bool
	call  func(ctx context.Context, api API, input []byte) (any, error)
}

var procedures = map[string]procedure{
	ProcListAll: {query: true, call: func(ctx context.Context, api API, _ []byte) (any, error) {
		return api.ListAll(ctx)
	}},
	ProcGetByID: {query: true, call: func(ctx context.Context, api API, input []byte) (any, error) {
		var in IDInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return api.GetByID(ctx, in.ID)
	}},
	ProcGetByType: {query: true, call: func(ctx context.Context, api API, input []byte) (any, error) {
		var in TypeInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return api.GetByType(ctx, in.Type)
	}},
	ProcDescribe: {query: true, call: func(ctx context.Context, api API, _ []byte) (any, error) {
		return api.Describe(ctx)
	}},
	ProcCreate: {call: func(ctx context.Context, api API, input []byte) (any, error) {
		var in content.Draft
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return api.Create(ctx, in)
	}},
	ProcUpdate: {call: func(ctx context.Context, api API, input []byte) (any, error) {
		var in UpdateInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return api.Update(ctx, in.ID, in.Data)
	}},
	ProcDelete: {call: func(ctx context.Context, api API, input []byte) (any, error) {
		var in IDInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return nil, api.Delete(ctx, in.ID)
	}},
}

// Handler serves /rpc/{procedure}.
type Handler struct {
	api API
	log *slog.Logger
}

func NewHandler(api API, logger *slog.Logger) *Handler {
	return &Handler{api: api, log: logger.With("handler", "rpc")}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("procedure")
	proc, ok := procedures[name]
	if !ok {
		writeError(w, &Error{Code: CodeNotFoundProcedure, Message: fmt.Sprintf("no procedure %q", name)})
		return
	}

	var input []byte
	switch {
	case r.Method == http.MethodPost:
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, &Error{Code: CodeBadRequest, Message: "could not read request body"})
			return
		}
		input = body
	case r.Method == http.MethodGet && proc.query:
		input = []byte(r.URL.Query().Get("input"))
	default:
		writeError(w, &Error{Code: CodeMethodNotSupported, Message: fmt.Sprintf("%s is not supported for %s", r.Method, name)})
		return
	}

	result, err := proc.call(r.Context(), h.api, input)
	if err != nil {
		e, known := toError(err)
		if !known {
			h.log.ErrorContext(r.Context(), "unexpected procedure error",
				slog.String("procedure", name),
				slog.String("error", err.Error()),
				slog.String("request_id", RequestIDFromCtx(r.Context())),
			)
		}
		writeError(w, e)
		return
	}

	writeJSON(w, http.StatusOK, resultEnvelope{Result: result})
}

type resultEnvelope struct {
	Result any `json:"result"`
}

type errorEnvelope struct {
	Error *Error `json:"error"`
}

// Envelope is the decoded form of either response shape.
type Envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// decodeInput treats an absent input as an empty object so that missing
// fields surface as validation errors rather than decode errors.
func decodeInput(input []byte, v any) error {
	if len(input) == 0 {
		return nil
	}
	if err := json.Unmarshal(input, v); err != nil {
		return &Error{Code: CodeBadRequest, Message: "malformed input: " + err.Error()}
	}
	return nil
}

func writeError(w http.ResponseWriter, e *Error) {
	writeJSON(w, e.Code.Status(), errorEnvelope{Error: e})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Routes assembles the HTTP surface: the procedures, the health probes and
// the middleware stack.
func Routes(api API, store pinger, logger *slog.Logger, corsOrigins []string) http.Handler {
	health := NewHealthHandler(store)

	mux := http.NewServeMux()
	mux.Handle("/rpc/{procedure}", NewHandler(api, logger))
	mux.HandleFunc("GET /health", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)

	return Chain(
		RequestID,
		Logger(logger),
		Recovery(logger),
		CORS(corsOrigins),
	)(mux)
}
