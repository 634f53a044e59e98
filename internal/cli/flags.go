package cli

import (
	"strings"

	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/spf13/pflag"
)

// statusValue is a pflag.Value accepting "todo", "in-progress", "done" and
// the display names.
type statusValue struct {
	status *domain.TaskStatus
}

var _ pflag.Value = statusValue{}

func newStatusValue(p *domain.TaskStatus) statusValue {
	return statusValue{status: p}
}

func (v statusValue) String() string {
	if v.status == nil {
		return ""
	}
	return string(*v.status)
}

func (v statusValue) Set(s string) error {
	st, err := domain.ParseTaskStatus(s)
	if err != nil {
		return err
	}
	*v.status = st
	return nil
}

func (statusValue) Type() string { return "status" }

type roleValue struct {
	role *domain.Role
}

var _ pflag.Value = roleValue{}

func newRoleValue(p *domain.Role) roleValue {
	return roleValue{role: p}
}

func (v roleValue) String() string {
	if v.role == nil {
		return ""
	}
	return string(*v.role)
}

func (v roleValue) Set(s string) error {
	r, err := domain.ParseRole(s)
	if err != nil {
		return err
	}
	*v.role = r
	return nil
}

func (roleValue) Type() string { return "role" }

// statusNames lists the accepted spellings for help text.
func statusNames() string {
	names := make([]string, 0, len(domain.BoardColumns))
	for _, s := range domain.BoardColumns {
		names = append(names, strings.ToLower(strings.ReplaceAll(string(s), " ", "-")))
	}
	return strings.Join(names, "|")
}
