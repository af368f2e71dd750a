package cli

import (
	"context"

	"reps-auth/internal/logger"
)

// terminalNavigator is the CLI's authenticated area: it announces who is
// signed in.
type terminalNavigator struct {
	backend Backend
	print   printer
}

func (n terminalNavigator) GoToAuthenticatedRoot(ctx context.Context) {
	who := n.backend.SessionID()

	if lookup, ok := n.backend.(userLookup); ok {
		userID, err := lookup.Me(ctx)
		if err != nil {
			logger.Warn("user lookup failed", map[string]any{
				"error": err.Error(),
			})
		} else {
			who = userID
		}
	}

	if who == "" {
		n.print.Success("Signed in")
		return
	}
	n.print.Success("Signed in as " + who)
}
