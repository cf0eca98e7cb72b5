package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Stats prints the request and mutation counters of this run.
func (a *App) Stats(ctx context.Context) error {
	samples, err := a.metrics.Snapshot()
	if err != nil {
		a.logger.Warn(ctx, "metrics snapshot", "error", err)
		return err
	}
	if len(samples) == 0 {
		a.println("No activity yet")
		return nil
	}

	for _, s := range samples {
		keys := make([]string, 0, len(s.Labels))
		for k := range s.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+s.Labels[k])
		}
		a.println(fmt.Sprintf("%s{%s} %g", s.Name, strings.Join(pairs, ","), s.Value))
	}
	return nil
}
