package domain

// Application is a single submission of the public application form.
// It lives only for the duration of one intake.
type Application struct {
	FirstName     string `form:"firstName"`
	LastName      string `form:"lastName"`
	Email         string `form:"email"`
	Phone         string `form:"phone"`
	Position      string `form:"position"`
	Experience    string `form:"experience"`
	CurrentSalary string `form:"currentSalary"`
	Location      string `form:"location"`
	Industry      string `form:"industry"`
	CoverLetter   string `form:"coverLetter"`
	Consent       string `form:"consent"`
}

// StagedFile is an uploaded resume written to temporary storage.
type StagedFile struct {
	Path         string
	OriginalName string
	ContentType  string
	Size         int64
}

type IntakeState string

const (
	IntakeReceived  IntakeState = "received"
	IntakeNotifying IntakeState = "notifying"
	IntakeDelivered IntakeState = "delivered"
	IntakeRejected  IntakeState = "rejected"
)
