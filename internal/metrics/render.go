package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/kesselops/healthexporter/internal/probe"
)

// ContentType is the Prometheus text exposition content type served on
// /metrics.
const ContentType = "text/plain; version=0.0.4"

const (
	helpLine = "# HELP up Health check status (1 = up, 0 = down)\n"
	typeLine = "# TYPE up gauge\n"
)

// Render produces the text exposition for one completed sweep. One up{} line
// per result, in the order given, followed by a completion timestamp comment.
// Service names are written into the job label verbatim, with no escaping.
// The output always ends in exactly one newline.
func Render(results []probe.HealthResult, completedAt time.Time) string {
	var b strings.Builder
	b.WriteString(helpLine)
	b.WriteString(typeLine)
	for _, res := range results {
		v := "0"
		if res.Up {
			v = "1"
		}
		b.WriteString(`up{job="`)
		b.WriteString(res.Service)
		b.WriteString(`"} `)
		b.WriteString(v)
		b.WriteByte('\n')
	}
	b.WriteString("# Health checks completed at ")
	b.WriteString(strconv.FormatInt(completedAt.Unix(), 10))
	b.WriteByte('\n')
	return b.String()
}
