package questions

// FallbackSkill labels responses whose question carries no topic.
const FallbackSkill = "Other skills"

// AllValue is the selector value meaning "no filter" for a facet.
const AllValue = "__all__"

// Question is a single multiple-choice item from the question bank.
// Answer always indexes into Options.
type Question struct {
	Grade    string   `json:"grade,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Topic    string   `json:"topic,omitempty"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
	Image    string   `json:"image,omitempty"`
	ImageAlt string   `json:"imageAlt,omitempty"`
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return ""
	}
	return q.Options[q.Answer]
}

// Field identifies a facet of a Question.
type Field string

const (
	FieldGrade   Field = "grade"
	FieldSubject Field = "subject"
	FieldTopic   Field = "topic"
)

// Value returns the question's value for the given facet.
func (q Question) Value(f Field) string {
	switch f {
	case FieldGrade:
		return q.Grade
	case FieldSubject:
		return q.Subject
	case FieldTopic:
		return q.Topic
	}
	return ""
}

// SessionQuestion is a Question prepared for one session: its options are
// shuffled and Answer points at the new position of the correct option.
type SessionQuestion struct {
	Question

	// OriginalAnswer is the answer index before the options were shuffled.
	OriginalAnswer int
}
