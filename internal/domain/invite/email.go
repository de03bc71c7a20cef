package invite

import "fmt"

func buildInviteMail(to, inviterName, url string) Mail {
	html := fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 24px; border-radius: 8px; border: 1px solid #eee;">
      <h2 style="color: #4A90D9;">You have a KidsWeek invitation</h2>
      <p>Hello,</p>
      <p><strong>%s</strong> invites you to join <strong>KidsWeek</strong> to plan family activities together.</p>
      <div style="text-align: center; margin: 32px 0;">
        <a href="%s"
           style="background-color: #4A90D9; color: white; padding: 14px 28px;
                  border-radius: 6px; text-decoration: none; font-size: 16px; font-weight: bold;">
          Accept the invitation
        </a>
      </div>
      <p style="color: #999; font-size: 12px;">
        This link is valid for 7 days. If you were not expecting this invitation you can ignore this email.
      </p>
    </div>`, inviterName, url)

	return Mail{
		To:      to,
		Subject: "KidsWeek - You have an invitation",
		HTML:    html,
		Text:    fmt.Sprintf("%s invites you to join KidsWeek. Open: %s", inviterName, url),
	}
}
