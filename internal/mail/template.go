package mail

import (
	"fmt"
	"html/template"
	"strings"
)

// ResetSubject is the subject line of the password-reset email.
const ResetSubject = "Reset ProShop Password"

var resetBody = template.Must(template.New("reset").Parse(`
<h2>Please click on the given link to reset your password</h2>
<p><a href="{{.Link}}">{{.Link}}</a></p>
`))

// NewResetMessage builds the password-reset email for the given recipient.
// The link embeds the reset token under the SPA's reset-password route.
func NewResetMessage(from, to, clientURL, token string) (Message, error) {
	link := fmt.Sprintf("%s/reset-password/%s", strings.TrimRight(clientURL, "/"), token)
	var b strings.Builder
	if err := resetBody.Execute(&b, struct{ Link string }{Link: link}); err != nil {
		return Message{}, fmt.Errorf("mail: render reset body: %w", err)
	}
	return Message{
		From:    from,
		To:      to,
		Subject: ResetSubject,
		HTML:    b.String(),
	}, nil
}
