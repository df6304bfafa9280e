package utils

import (
	"fmt"
	"lms/config"
	"log"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email through SendGrid. Failures are logged,
// never fatal to the calling request.
func SendEmail(toName, toEmail, subject, html string) error {
	from := sgmail.NewEmail("Learning Platform", config.AppConfig.EmailSender)
	to := sgmail.NewEmail(toName, toEmail)
	message := sgmail.NewSingleEmail(from, subject, to, "", html)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("Failed to send email to %s, response code: %d", toEmail, resp.StatusCode)
		return fmt.Errorf("failed to send email, code: %d", resp.StatusCode)
	}

	log.Println("Email sent successfully to", toEmail)
	return nil
}

// SendEnrollmentEmail sends an email notification when user enrolls in a course
func SendEnrollmentEmail(email, userName, courseName string) error {
	subject := "Course Enrollment Confirmation"
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">🎉 Enrollment Successful!</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Congratulations! You have successfully enrolled in:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<p style="font-size: 14px; color: #666666;">You can now access all the course lessons and start learning. Complete every lesson to earn your certificate.</p>
					<p style="font-size: 14px; color: #999999; text-align: center; margin-top: 30px;">Happy Learning!</p>
				</div>
			</body>
		</html>
	`, userName, courseName)

	return SendEmail(userName, email, subject, body)
}

// SendCertificateEmail sends certificate notification email
func SendCertificateEmail(email, userName, courseName, credentialID string) error {
	subject := "Your Course Completion Certificate"
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
				<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
					<h2 style="color: #333333; text-align: center;">🏆 Certificate of Completion</h2>
					<p style="font-size: 16px; color: #555555;">Dear %s,</p>
					<p style="font-size: 16px; color: #555555;">Congratulations on completing:</p>
					<h3 style="text-align: center; color: #4CAF50; margin: 20px 0;">%s</h3>
					<div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px; margin: 20px 0; text-align: center;">
						<p style="font-size: 14px; color: #666666; margin-bottom: 10px;">Your Credential ID:</p>
						<h2 style="color: #2196F3; margin: 0;">%s</h2>
					</div>
					<p style="font-size: 14px; color: #666666;">Your certificate is now available in your account. Share the credential ID for verification purposes.</p>
				</div>
			</body>
		</html>
	`, userName, courseName, credentialID)

	return SendEmail(userName, email, subject, body)
}

// SendSubscriptionExpiryReminder sends an email reminder before subscription expires
func SendSubscriptionExpiryReminder(email, name, planName, expiryDate string) error {
	subject := "Your Subscription is Expiring Soon"
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
				<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
					<h2 style="color: #2563eb;">Subscription Expiring Soon</h2>
					<p>Dear %s,</p>
					<p>Your subscription to the <strong>%s</strong> plan is expiring on <strong>%s</strong>.</p>
					<p>Renew before it expires to keep access to premium courses and certificate tiers.</p>
				</div>
			</body>
		</html>
	`, name, planName, expiryDate)

	return SendEmail(name, email, subject, body)
}

// SendSubscriptionExpiredEmail sends an email when subscription has expired
func SendSubscriptionExpiredEmail(email, name, planName string) error {
	subject := "Your Subscription Has Expired"
	body := fmt.Sprintf(`
		<html>
			<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
				<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
					<h2 style="color: #dc2626;">Subscription Expired</h2>
					<p>Dear %s,</p>
					<p>Your subscription to the <strong>%s</strong> plan has expired.</p>
					<p>Your account has been moved to the free plan. Renew any time to restore premium access.</p>
				</div>
			</body>
		</html>
	`, name, planName)

	return SendEmail(name, email, subject, body)
}
