package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Nishchay412/Social-Distribution/pkg/api"
	"github.com/Nishchay412/Social-Distribution/pkg/core/domain"
	"github.com/Nishchay412/Social-Distribution/pkg/core/relation"
)

var (
	// ErrUnauthenticated : l'utilisateur doit se (re)connecter. Pas de refresh silencieux.
	ErrUnauthenticated = errors.New("authentication required")
	ErrAuthRequired    = fmt.Errorf("%w: no session", ErrUnauthenticated)
	ErrSessionExpired  = fmt.Errorf("%w: session expired", ErrUnauthenticated)

	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")

	// ErrInvalidPayload : la réponse ne respecte pas le schéma attendu.
	ErrInvalidPayload = errors.New("invalid response payload")
)

// APIError porte la réponse d'erreur brute du serveur.
type APIError struct {
	Status  int
	Code    string
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap permet errors.Is(err, relation.ErrAlreadyRequested) etc.
func (e *APIError) Unwrap() error { return e.kind }

// TransportError : échec réseau, 5xx ou 429. Toujours retryable, les préconditions
// côté serveur rendent la répétition d'une mutation sans effet de bord.
type TransportError struct {
	Op     string
	Status int // 0 si aucune réponse
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsRetryable : seules les erreurs de transport méritent un nouvel essai.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

var codeKinds = map[string]error{
	api.CodeSelfFollowNotAllowed: relation.ErrSelfFollowNotAllowed,
	api.CodeAlreadyRequested:     relation.ErrAlreadyRequested,
	api.CodeNoPendingRequest:     relation.ErrNoPendingRequest,
	api.CodeNotFollowing:         relation.ErrNotFollowing,
	api.CodeRequestInFlight:      domain.ErrRequestInFlight,
	api.CodeNotFound:             ErrNotFound,
	api.CodeUnauthenticated:      ErrUnauthenticated,
	api.CodeForbidden:            ErrForbidden,
	api.CodeInvalidInput:         ErrInvalidInput,
	api.CodeConflict:             ErrConflict,
}

// decodeError traduit une réponse >= 400 en erreur typée.
func decodeError(op string, status int, body api.ErrorResponse) error {
	if status >= 500 || status == http.StatusTooManyRequests {
		return &TransportError{Op: op, Status: status, Err: errors.New(body.Error)}
	}

	kind, ok := codeKinds[body.Code]
	if !ok {
		switch status {
		case http.StatusUnauthorized:
			kind = ErrUnauthenticated
		case http.StatusNotFound:
			kind = ErrNotFound
		case http.StatusForbidden:
			kind = ErrForbidden
		case http.StatusConflict:
			kind = ErrConflict
		default:
			kind = ErrInvalidInput
		}
	}
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Code: body.Code, Message: msg, kind: kind}
}
