package engine

import (
	"strings"
	"time"
)

// RenderFileName substitutes the {supplier}, {date} and {time}
// placeholders in the profile's filename template and appends the
// extension for the output format. Unrecognized placeholders are left
// verbatim.
func RenderFileName(profile Profile, supplier string, now time.Time) string {
	template := profile.FilenameTemplate
	if template == "" {
		template = "{supplier}_{date}"
	}

	name := strings.ReplaceAll(template, "{supplier}", supplier)
	name = strings.ReplaceAll(name, "{date}", now.Format(profile.DateFormat.Layout()))
	name = strings.ReplaceAll(name, "{time}", now.Format("150405"))

	return name + profile.OutputFormat.Extension()
}
