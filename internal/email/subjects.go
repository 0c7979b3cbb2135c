package email

const (
	subjectFollowUpReminderFmt = "Rappel : relance prévue pour %s"
	subjectLeadAssignedFmt     = "Nouveau lead attribué : %s"
)
