package metrics

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Annotation holds the optional structured fields operators embed in a cycle
// record's free-text note as "key:value|key:value" tokens. Absence of any
// token is normal; tokens that fail to parse land in Malformed.
type Annotation struct {
	Target          *int
	DowntimeMinutes *int
	Part            *string
	PartID          *string
	Malformed       []string
}

// ParseAnnotation never fails: unknown keys are ignored and bad values are
// collected, so one operator typo cannot poison the rest of the record.
func ParseAnnotation(text string) Annotation {
	var ann Annotation

	if strings.TrimSpace(text) == "" {
		return ann
	}

	for _, token := range strings.Split(text, "|") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		pair := strings.SplitN(token, ":", 2)
		if len(pair) != 2 {
			ann.Malformed = append(ann.Malformed, token)
			continue
		}

		key := strings.TrimSpace(pair[0])
		value := strings.TrimSpace(pair[1])

		switch key {
		case "target":
			n, err := strconv.Atoi(value)
			if err != nil {
				ann.Malformed = append(ann.Malformed, token)
				continue
			}
			ann.Target = &n
		case "downtime":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				ann.Malformed = append(ann.Malformed, token)
				continue
			}
			ann.DowntimeMinutes = &n
		case "part":
			if value != "" {
				v := value
				ann.Part = &v
			}
		case "partId":
			if _, err := uuid.Parse(value); err != nil {
				ann.Malformed = append(ann.Malformed, token)
				continue
			}
			v := value
			ann.PartID = &v
		}
	}

	return ann
}
