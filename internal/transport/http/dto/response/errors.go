package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status: "error",
		Error:  "authentication_failed",
	}

	ErrSessionRequired = ErrorResponse{
		Status:  "error",
		Error:   "session_required",
		Details: "Log in before calling gallery endpoints",
	}

	ErrDuplicateImageName = ErrorResponse{
		Status:  "error",
		Error:   "duplicate_image_name",
		Details: "Image with this name already exists for the product",
	}

	ErrOdooUnavailable = ErrorResponse{
		Status: "error",
		Error:  "odoo_unavailable",
	}
)
