package workflow

import (
	"context"
	"fmt"

	"cdripper/internal/deps"
	"cdripper/internal/encoding"
	"cdripper/internal/preflight"
	"cdripper/internal/services"
)

// checkDependencies fails when a program required for format is missing.
func (m *Manager) checkDependencies(_ context.Context, format encoding.Format) error {
	statuses := deps.CheckBinaries(preflight.Requirements(m.cfg, string(format)))
	missing := deps.MissingRequired(statuses)
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "workflow", "preflight",
		fmt.Sprintf("missing required programs: %s", deps.Describe(missing)), nil)
}
