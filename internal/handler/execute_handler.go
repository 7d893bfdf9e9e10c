/*
Package handler provides HTTP handler functions for remote code execution.

The execution service is an external collaborator: these handlers validate the
request, forward it, and relay the mapped result without retry logic.
*/
package handler

import (
	"errors"
	"net/http"

	"codesync/internal/app/executor"
	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/logx"
	"codesync/internal/pkg/req"
	"codesync/internal/pkg/resp"
)

// ExecuteCodeInput is the JSON body of a code execution request.
type ExecuteCodeInput struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Stdin    string `json:"stdin,omitempty"`
	Version  string `json:"version,omitempty"`
}

// HandleExecuteCode forwards a code execution request to the execution service.
func HandleExecuteCode(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input ExecuteCodeInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Code == "" || input.Language == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		result, err := deps.Executor.Execute(r.Context(), executor.Request{
			Code:     input.Code,
			Language: input.Language,
			Stdin:    input.Stdin,
			Version:  input.Version,
		})
		if err != nil {
			if errors.Is(err, executor.ErrUnsupportedLanguage) {
				resp.RespondError(w, r, errs.NewError(errs.ErrLanguageNotSupported))
				return
			}

			logx.Error(err, "Code execution failed", "language", input.Language)
			resp.RespondError(w, r, errs.NewError(errs.ErrExecutionFailed))
			return
		}

		resp.RespondSuccess(w, r, result)
	}
}

// HandleSupportedLanguages returns the list of languages the execution
// boundary accepts.
func HandleSupportedLanguages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		languages := executor.Languages()

		resp.RespondSuccess(w, r, map[string]any{
			"languages": languages,
			"count":     len(languages),
		})
	}
}

// HandleRuntimes relays the execution service's runtime inventory.
func HandleRuntimes(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runtimes, err := deps.Executor.Runtimes(r.Context())
		if err != nil {
			logx.Error(err, "Failed to fetch runtimes from execution service")
			resp.RespondError(w, r, errs.NewError(errs.ErrExecutionFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"runtimes": runtimes,
		})
	}
}
