package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed      = errors.New("validation failed")
	ErrTeamNameRequired      = errors.New("team name is required")
	ErrMatchTeamsIdentical   = errors.New("home and away team must be different")
	ErrMatchFieldsRequired   = errors.New("home team, away team, venue and start time are required")
	ErrMatchNegativeScore    = errors.New("match score cannot be negative")
	ErrMatchAlreadyStarted   = errors.New("match has already started")
	ErrMatchAlreadyFinished  = errors.New("match has already finished")
	ErrMatchNotLive          = errors.New("match is not live")
	ErrMatchScoreNotEditable = errors.New("score can only be edited for live or finished matches")
	ErrGoalFieldsRequired    = errors.New("match and player are required for a goal")
	ErrPasswordTooShort      = errors.New("password is too short")

	// Ошибки конфликтов
	ErrProfileEmailConflict    = errors.New("email address is already in use")
	ErrProfileUsernameConflict = errors.New("username is already in use")
	ErrTeamNameConflict        = errors.New("team name is already in use")
	ErrAdminRequestPending     = errors.New("an admin request is already pending for this user")
	ErrAdminRequestReviewed    = errors.New("admin request has already been reviewed")
	ErrAlreadyAdmin            = errors.New("user already has admin role")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrAdminRoleRequired      = errors.New("admin role is required for this operation")

	// Ошибки, специфичные для сущностей
	ErrProfileNotFound      = errors.New("profile not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrAdminRequestNotFound = errors.New("admin request not found")
)
