// Command workorderctl prices line items, resolves week numbers and queries
// the work order server from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	_ "time/tzdata"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/api-gateway/infra/adapters/remote"
	memory "github.com/allstar-electrical/workorders/internal/api-gateway/infra/adapters/service"
	"github.com/allstar-electrical/workorders/internal/config"
	"github.com/allstar-electrical/workorders/internal/workorder/calendar"
)

type options struct {
	remoteURL string
	timezone  string
	timeout   time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := config.Default()
	opts := &options{}

	root := &cobra.Command{
		Use:           "workorderctl",
		Short:         "Work order totals, weeks and remote lookups",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.remoteURL, "remote", getEnv("REMOTE_BASE_URL", defaults.Remote.BaseURL),
		`work order server base URL, or "memory"`)
	root.PersistentFlags().StringVar(&opts.timezone, "timezone", getEnv("TIMEZONE", defaults.Calendar.Timezone),
		"IANA location used to count weeks")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaults.Remote.Timeout, "remote request timeout")

	root.AddCommand(
		newTotalsCmd(),
		newWeekCmd(opts),
		newWeeksCmd(opts),
		newPartsCmd(opts),
		newTravelCmd(opts),
	)
	return root
}

func (o *options) resolver() (*calendar.Resolver, error) {
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", o.timezone, err)
	}
	return calendar.NewResolver(loc), nil
}

func (o *options) backend() ports.Backend {
	if o.remoteURL == "memory" {
		return memory.NewMemoryBackend()
	}
	return remote.NewClient(o.remoteURL, o.timeout)
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 2*o.timeout)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
