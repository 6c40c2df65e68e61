// Package authflow drives the sign-in, sign-up and password flows.
// Each operation is one isolated request/response exchange: a single
// attempt, reported back as a human-readable message on failure. The
// flow is the only writer of the session store besides logout.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"smartspend/internal/api"
	"smartspend/internal/core"
	"smartspend/internal/log"
	"smartspend/internal/session"
)

// CodeLength is the number of digits in a password-reset code.
const CodeLength = 6

// Error carries the message shown to the user alongside the cause.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func flowErr(message string, cause error) *Error {
	return &Error{Message: message, Err: cause}
}

// UserMessage extracts the display message from a flow error. Other
// errors fall back to their Error() string.
func UserMessage(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}

// Flow wires the API client to the session store.
type Flow struct {
	client *api.Client
	store  *session.Store

	// now is swappable for tests.
	now func() time.Time
}

func New(client *api.Client, store *session.Store) *Flow {
	return &Flow{client: client, store: store, now: time.Now}
}

// SignIn performs the credential exchange and persists the session.
// With remember set, the email (never the password) is kept for
// pre-filling the next prompt.
func (f *Flow) SignIn(ctx context.Context, email, password string, remember bool) error {
	if email == "" || password == "" {
		return flowErr(MsgFillAllFields, nil)
	}

	res, err := f.client.SignIn(ctx, email, password)
	if err != nil {
		return flowErr(signInMessage(err), err)
	}
	if res.AccessToken == "" {
		return flowErr(MsgServerError, errors.New("login response carried no access token"))
	}

	if err := f.store.Save(ctx, res.AccessToken, f.now()); err != nil {
		return flowErr(MsgServerError, err)
	}

	if remember {
		err = f.store.RememberEmail(ctx, email)
	} else {
		err = f.store.ForgetEmail(ctx)
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to update remembered email", log.FieldError, err)
	}

	slog.InfoContext(ctx, "Signed in", log.FieldEmail, email, "remember", remember)
	return nil
}

// AutoSignIn returns the stored session when it is still valid, nil
// when the user has to sign in again.
func (f *Flow) AutoSignIn(ctx context.Context) (*session.Session, error) {
	return f.store.Current(ctx)
}

// SignOut clears the persisted session.
func (f *Flow) SignOut(ctx context.Context) error {
	slog.InfoContext(ctx, "Signing out")
	return f.store.Clear(ctx)
}

// SignUp registers a new account. On success the caller proceeds to
// SignIn; there is no auto-login.
func (f *Flow) SignUp(ctx context.Context, name, email, password, confirm string) (core.User, error) {
	if name == "" || email == "" || password == "" || password != confirm {
		return core.User{}, flowErr(MsgFillSignUpFields, nil)
	}

	user, err := f.client.SignUp(ctx, name, email, password)
	if err != nil {
		return core.User{}, flowErr(signInMessage(err), err)
	}

	slog.InfoContext(ctx, "Signed up", log.FieldEmail, email)
	return user, nil
}

// RequestReset asks the backend to send a reset code to the email.
func (f *Flow) RequestReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return flowErr(MsgEnterEmail, nil)
	}

	if err := f.client.ForgotPassword(ctx, email); err != nil {
		if kind, ok := api.ErrKind(err); ok && kind == api.KindNetwork {
			return flowErr(MsgNetworkError, err)
		}
		return flowErr(MsgResetFailed, err)
	}
	return nil
}

// VerifyCode gates the reset flow on a well-formed code: exactly six
// digits, checked locally before any request leaves the process, then
// confirmed against the backend.
func (f *Flow) VerifyCode(ctx context.Context, code string) error {
	if !validCode(code) {
		return flowErr(MsgEnterSixDigitCode, nil)
	}

	valid, err := f.client.VerifyResetToken(ctx, code)
	if err != nil {
		if kind, ok := api.ErrKind(err); ok && kind == api.KindNetwork {
			return flowErr(MsgNetworkError, err)
		}
		return flowErr(MsgServerError, err)
	}
	if !valid {
		return flowErr(MsgCodeInvalid, nil)
	}
	return nil
}

// ResetPassword sets a new password using a verified reset code. Any
// existing session is cleared so the user signs back in.
func (f *Flow) ResetPassword(ctx context.Context, code, newPassword string) error {
	if !validCode(code) {
		return flowErr(MsgEnterSixDigitCode, nil)
	}
	if newPassword == "" {
		return flowErr(MsgFillAllFields, nil)
	}

	if err := f.client.ResetPassword(ctx, code, newPassword); err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			if apiErr.Kind == api.KindNetwork {
				return flowErr(MsgNetworkError, err)
			}
			return flowErr(fmt.Sprintf(MsgResetPasswordFailed, apiErr.Status), err)
		}
		return flowErr(MsgServerError, err)
	}

	if err := f.store.Clear(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to clear session after password reset", log.FieldError, err)
	}
	return nil
}

// ChangePassword changes the password of the signed-in user. A 401
// from the backend means the current password was wrong and gets its
// own message, distinct from any other failure.
func (f *Flow) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return flowErr(MsgFillAllFields, nil)
	}

	sess, err := f.store.Current(ctx)
	if err != nil {
		return flowErr(MsgServerError, err)
	}
	if sess == nil {
		return flowErr(MsgNotSignedIn, nil)
	}

	if err := f.client.ChangePassword(ctx, sess.Token, oldPassword, newPassword); err != nil {
		if api.IsUnauthorized(err) {
			return flowErr(MsgWrongCurrentPassword, err)
		}
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			if apiErr.Kind == api.KindNetwork {
				return flowErr(MsgNetworkError, err)
			}
			return flowErr(fmt.Sprintf(MsgChangePasswordFailed, apiErr.Status), err)
		}
		return flowErr(MsgServerError, err)
	}
	return nil
}

// signInMessage maps client errors onto the credential-flow messages.
func signInMessage(err error) string {
	kind, ok := api.ErrKind(err)
	if !ok {
		return MsgServerError
	}
	switch kind {
	case api.KindNetwork:
		return MsgNetworkError
	case api.KindUnauthorized, api.KindDecode:
		return MsgInvalidCredentials
	default:
		return MsgServerError
	}
}

// validCode accepts exactly six ASCII digits. Checked byte-wise so a
// multibyte digit can never pad out the length; the code is entered
// into six single-digit cells and nothing outside '0'..'9' is valid.
func validCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
