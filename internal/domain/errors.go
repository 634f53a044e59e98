package domain

import "errors"

var (
	ErrAuth                 = errors.New("invalid username or password")
	ErrDuplicateUser        = errors.New("user already exists")
	ErrDuplicateTeam        = errors.New("team already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")
	ErrNotTeamMember        = errors.New("user is not a member of the team")
	ErrInvalidInput         = errors.New("invalid input")
	ErrForbidden            = errors.New("action not permitted for this session")
	ErrNoSession            = errors.New("not logged in")
	ErrParse                = errors.New("malformed snapshot")
	ErrPersistenceWrite     = errors.New("persisting board state failed")
)
