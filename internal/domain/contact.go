package domain

// ContactMessage is a contact-form submission relayed by email.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}
