package apperr

var (
	ErrItemNotFound         = NotFound("item not found")
	ErrInquiryNotFound      = NotFound("inquiry not found")
	ErrUserNotFound         = NotFound("user not found")
	ErrCategoryNotFound     = NotFound("category not found")
	ErrTagNotFound          = NotFound("tag not found")
	ErrSlugTaken            = AlreadyExists("slug is already in use")
	ErrEmailTaken           = AlreadyExists("email is already in use")
	ErrEmptyMessage         = InvalidArg("message text cannot be empty")
	ErrRequiredFields       = InvalidArg("required fields are missing")
	ErrContactRequired      = InvalidArg("email or phone number is required")
	ErrInvalidPrice         = InvalidArg("price must be a non-negative number")
	ErrInvalidDiscount      = InvalidArg("discount price must be positive and lower than price")
	ErrInvalidStatus        = InvalidArg("invalid status")
	ErrInvalidCurrency      = InvalidArg("unsupported currency")
	ErrNotParticipant       = Forbidden("not a participant of this conversation")
	ErrNotOwner             = Forbidden("item does not belong to user")
	ErrBlockedFromPosting   = FailedPrecondition("user is blocked from posting")
	ErrDailyLimitReached    = Exhausted("daily ad limit reached")
	ErrInvalidCredentials   = Unauthorized("invalid credentials")
	ErrInvalidEmail         = InvalidArg("invalid email address")
	ErrWeakPassword         = InvalidArg("password is too short")
	ErrNoConversationChosen = FailedPrecondition("no conversation selected")
)
