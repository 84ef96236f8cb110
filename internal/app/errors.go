package app

import (
	"records/internal/application/datastore"
	"records/internal/application/orchestrators"
	"records/internal/application/projections"
	"records/internal/application/session"
	"records/internal/domain/account"
	"records/internal/domain/department"
	"records/internal/domain/employee"
	"records/internal/domain/request"
)

// userErrors are shown to the user as-is; anything else is a failure of
// the app itself.
var userErrors = []error{
	datastore.ErrDuplicateKey,
	datastore.ErrUnknownReference,
	datastore.ErrSelfDeletion,
	datastore.ErrSelfPasswordReset,
	datastore.ErrNotFound,
	session.ErrInvalidCredentials,
	orchestrators.ErrMissingFields,
	orchestrators.ErrNoPendingAccount,
	orchestrators.ErrNotAuthenticated,
	orchestrators.ErrNotAuthorized,
	projections.ErrNotAuthenticated,
	account.ErrEmptyEmail,
	account.ErrInvalidEmail,
	account.ErrEmailTooLong,
	account.ErrEmptyName,
	account.ErrNameTooLong,
	account.ErrInvalidRole,
	account.ErrInvalidPassword,
	account.ErrPasswordTooLong,
	department.ErrEmptyName,
	department.ErrNameTooLong,
	employee.ErrEmptyID,
	employee.ErrEmptyUserEmail,
	employee.ErrEmptyPosition,
	employee.ErrInvalidHireDate,
	request.ErrEmptyType,
	request.ErrInvalidItems,
	request.ErrInvalidStatus,
	request.ErrEmptyOwner,
}
