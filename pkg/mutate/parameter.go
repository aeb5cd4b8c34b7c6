package mutate

import (
	"strings"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/pattern"
)

const OpEditParameter = "set_parameter"

// EditParameter replaces the value of the parameter named name. The type,
// modifiers, name, description string and annotation are left untouched.
func EditParameter(text, name, value string, opts ...Option) (string, error) {
	if name == "" || strings.TrimSpace(value) == "" {
		return "", domain.NewEditError(OpEditParameter, domain.ErrInvalidArgument, name, "parameter edit requires a name and a value")
	}
	o := newOptions(opts)

	re := pattern.Parameter(name)
	locs := re.FindAllStringSubmatchIndex(text, -1)
	switch {
	case len(locs) == 0:
		return "", domain.NewEditError(OpEditParameter, domain.ErrNotFound, name, "no parameter declaration in scope")
	case len(locs) > 1 && !o.allowDuplicates:
		return "", domain.NewEditError(OpEditParameter, domain.ErrAmbiguous, name, "parameter is declared more than once in scope")
	}

	var sb strings.Builder
	last := 0
	for _, loc := range locs {
		sb.WriteString(text[last:loc[4]])
		sb.WriteString(value)
		last = loc[5]
	}
	sb.WriteString(text[last:])
	return sb.String(), nil
}
