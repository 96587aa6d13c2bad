package db

import "errors"

// Domain-level database error sentinels.
var (
	// Article errors
	ErrArticleNotFound = errors.New("article not found")
	ErrDuplicateSlug   = errors.New("slug already exists")
	ErrAlreadyLiked    = errors.New("you have already liked this article")

	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Submission errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotPending         = errors.New("submission has already been reviewed")
	ErrSubmissionTerminal = errors.New("submission is already approved")
	ErrNotRevisable       = errors.New("submission is not awaiting revision")

	// Author application errors
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("you have already submitted an application")
	ErrApplicationReviewed  = errors.New("application already reviewed")

	// Newsletter errors
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrAlreadySubscribed  = errors.New("this email is already subscribed")
	ErrTokenNotFound      = errors.New("verification token not found")
	ErrTokenExpired       = errors.New("verification token expired")
)
