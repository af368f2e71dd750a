package signin

import (
	"encoding/json"
	"fmt"
)

// AttemptStatus is the state a sign-in attempt reports after a submission.
// Only StatusComplete can be acted on.
type AttemptStatus int

const (
	StatusNeedsIdentifier AttemptStatus = iota + 1
	StatusNeedsFirstFactor
	StatusNeedsSecondFactor
	StatusComplete
)

var statusNames = map[AttemptStatus]string{
	StatusNeedsIdentifier:   "needs_identifier",
	StatusNeedsFirstFactor:  "needs_first_factor",
	StatusNeedsSecondFactor: "needs_second_factor",
	StatusComplete:          "complete",
}

func (s AttemptStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// ParseAttemptStatus maps a wire status string onto the closed set of statuses.
func ParseAttemptStatus(v string) (AttemptStatus, error) {
	for status, name := range statusNames {
		if name == v {
			return status, nil
		}
	}
	return 0, fmt.Errorf("signin: unknown attempt status %q", v)
}

func (s AttemptStatus) MarshalJSON() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("signin: cannot marshal attempt status %d", int(s))
	}
	return json.Marshal(name)
}

func (s *AttemptStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseAttemptStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Attempt is one provider-tracked sign-in try. It is owned by the identity
// provider and never modified after it is returned.
type Attempt struct {
	ID               string        `json:"id"`
	Status           AttemptStatus `json:"status"`
	CreatedSessionID string        `json:"created_session_id,omitempty"`
}

// Credentials is what a credential submission sends to the provider.
type Credentials struct {
	Identifier string
	Secret     string
}

// logFields keeps the secret out of diagnostic output.
func (c Credentials) logFields() map[string]any {
	return map[string]any{
		"identifier":     c.Identifier,
		"secret_present": c.Secret != "",
	}
}

// ExternalFlowResult is the outcome of a redirect-based federated flow:
// either a session ID or a cancellation by the user.
type ExternalFlowResult struct {
	SessionID string
	Cancelled bool
}
