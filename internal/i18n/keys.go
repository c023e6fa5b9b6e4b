// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthAccountDisabled    = "auth.account_disabled"
	KeyAuthLogoutSuccess      = "auth.logout_success"

	// Users
	KeyUserNotFound   = "user.not_found"
	KeyUserRestricted = "user.restricted"

	// Products
	KeyProductNotFound    = "product.not_found"
	KeyProductDeactivated = "product.deactivated"
	KeyProductNotOwner    = "product.not_owner"
	KeyVariantNotFound    = "variant.not_found"

	// Purchases and payments
	KeyPurchaseNotFound        = "purchase.not_found"
	KeyPaymentInvalidSignature = "payment.invalid_signature"
	KeyPaymentNotCompleted     = "payment.not_completed"
	KeyPaymentOrderFailed      = "payment.order_failed"
	KeyPaymentUnavailable      = "payment.unavailable"
	KeyDownloadForbidden       = "download.forbidden"
	KeyLicenseNotFound         = "license.not_found"

	// Reports and contact
	KeyReportNotFound   = "report.not_found"
	KeyReportDuplicate  = "report.duplicate"
	KeyContactNotFound  = "contact.not_found"
	KeyContactSubmitted = "contact.submitted"
	KeyContactReplySent = "contact.reply_sent"

	// Admin
	KeyAdminAccessDenied = "admin.access_denied"
	KeyRoleAccessDenied  = "role.access_denied"

	// Rate limiting
	KeyRateLimited     = "rate.limited"
	KeyRateUnavailable = "rate.unavailable"

	// Chat
	KeyChatDisabled        = "chat.disabled"
	KeyChatConnectionError = "chat.connection_error"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileTooLarge     = "file.too_large"
	KeyFileTooMany      = "file.too_many"
)
