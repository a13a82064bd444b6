package api

import (
	"errors"
	"net/http"

	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/httputil"
)

// writeError maps an apierrors.Error (or plain error) to a status code and
// writes it as {"message": <reason>}, per the protocol's error contract.
// Internal detail (the wrapped cause, if any) is never included in the
// body; a plain error gets a generic 500 message. writeError does not log
// the error.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var apiErr *apierrors.Error
	if errors.As(err, &apiErr) {
		status = statusForKind(apiErr.Kind)
		message = apiErr.Reason
	}

	httputil.WriteJSON(w, status, map[string]string{"message": message})
}

func statusForKind(kind apierrors.Kind) int {
	switch kind {
	case apierrors.KindBadRequest:
		return http.StatusBadRequest
	case apierrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apierrors.KindNotFound:
		return http.StatusNotFound
	case apierrors.KindUpstream, apierrors.KindStorage:
		return http.StatusInternalServerError
	case apierrors.KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
