package views

import (
	"github.com/rivo/tview"
)

// LoginForm collects the email/password pair when no credentials exist.
type LoginForm struct {
	*tview.Form
	onSubmit func(email, password string)
	message  *tview.TextView
	layout   *tview.Flex
}

// NewLoginForm creates the login view.
func NewLoginForm() *LoginForm {
	form := tview.NewForm()
	form.SetBorder(true).SetTitle(" Sign in to Texturnhub ")

	message := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	lf := &LoginForm{Form: form, message: message}

	form.AddInputField("Email", "", 40, nil, nil)
	form.AddPasswordField("Password", "", 40, '*', nil)
	form.AddButton("Login", func() {
		if lf.onSubmit == nil {
			return
		}
		email := form.GetFormItemByLabel("Email").(*tview.InputField).GetText()
		password := form.GetFormItemByLabel("Password").(*tview.InputField).GetText()
		lf.onSubmit(email, password)
	})

	lf.layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(form, 0, 3, true).
		AddItem(message, 1, 0, false)

	return lf
}

// Layout returns the form plus its message line.
func (lf *LoginForm) Layout() tview.Primitive { return lf.layout }

// SetOnSubmit sets the callback invoked with the entered credentials.
func (lf *LoginForm) SetOnSubmit(fn func(email, password string)) {
	lf.onSubmit = fn
}

// ShowMessage displays a status line under the form.
func (lf *LoginForm) ShowMessage(msg string) {
	lf.message.Clear()
	_, _ = lf.message.Write([]byte(msg))
}

// Reset clears both fields.
func (lf *LoginForm) Reset() {
	lf.GetFormItemByLabel("Email").(*tview.InputField).SetText("")
	lf.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
}
