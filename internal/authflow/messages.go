package authflow

// User-facing messages. Each failed attempt surfaces exactly one of
// these; nothing is retried behind the user's back.
const (
	MsgFillAllFields      = "Please fill in all fields."
	MsgFillSignUpFields   = "Please fill in all fields correctly."
	MsgNetworkError       = "Network error. Please try again."
	MsgInvalidCredentials = "Invalid email or password."
	MsgServerError        = "Server error. Please try again later."
	MsgNotSignedIn        = "Not logged in"
	MsgSignedIn           = "Successfully logged in!"

	MsgEnterEmail    = "Please enter your email."
	MsgResetCodeSent = "A reset link has been sent to %s. Please check your email."
	MsgResetFailed   = "Failed to send reset link. Please try again."

	MsgEnterSixDigitCode = "Please enter a 6-digit code"
	MsgCodeInvalid       = "Invalid or expired code. Please request a new one."

	MsgPasswordReset       = "Password reset successful!"
	MsgResetPasswordFailed = "Failed to reset password (Status: %d)"

	MsgPasswordChanged      = "Password changed successfully!"
	MsgWrongCurrentPassword = "Current password is incorrect"
	MsgChangePasswordFailed = "Failed to change password (Status: %d)"
)
