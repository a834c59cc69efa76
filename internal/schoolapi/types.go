package schoolapi

import "encoding/json"

// Records are presentation data passed through from the server; the
// gateway renders them but computes nothing beyond the aggregation
// helpers. Extra keeps fields this client doesn't model.

type Teacher struct {
	ID             string          `json:"id"`
	Phone          string          `json:"phone"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	HomeroomRoomID string          `json:"homeroomRoomId,omitempty"`
	Extra          json.RawMessage `json:"-"`
}

type Student struct {
	ID        string          `json:"id"`
	Phone     string          `json:"phone"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	RoomID    string          `json:"roomId,omitempty"`
	ParentID  string          `json:"parentId,omitempty"`
	Extra     json.RawMessage `json:"-"`
}

type Parent struct {
	ID        string `json:"id"`
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Room struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Grade             string `json:"grade"`
	HomeroomTeacherID string `json:"homeroomTeacherId,omitempty"`
	StudentCount      int    `json:"studentCount,omitempty"`
}

type Subject struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type GradeEntry struct {
	StudentID  string  `json:"studentId"`
	SubjectID  string  `json:"subjectId"`
	Score      float64 `json:"score"`
	GradePoint float64 `json:"gradePoint"`
	Semester   string  `json:"semester,omitempty"`
}

type GradeSummary struct {
	RoomID    string  `json:"roomId"`
	SubjectID string  `json:"subjectId"`
	Average   float64 `json:"average"`
	Submitted int     `json:"submitted"`
	Total     int     `json:"total"`
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceLeave   AttendanceStatus = "leave"
)

type AttendanceRecord struct {
	StudentID string           `json:"studentId"`
	RoomID    string           `json:"roomId"`
	SubjectID string           `json:"subjectId,omitempty"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
}

type AttendanceSheet struct {
	RoomID    string             `json:"roomId"`
	SubjectID string             `json:"subjectId,omitempty"`
	Date      string             `json:"date"`
	Records   []AttendanceRecord `json:"records"`
}

type HealthRecord struct {
	StudentID  string  `json:"studentId"`
	Date       string  `json:"date"`
	WeightKG   float64 `json:"weightKg,omitempty"`
	HeightCM   float64 `json:"heightCm,omitempty"`
	BloodGroup string  `json:"bloodGroup,omitempty"`
	Allergies  string  `json:"allergies,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

type HomeVisit struct {
	ID        string  `json:"id,omitempty"`
	StudentID string  `json:"studentId"`
	Date      string  `json:"date"`
	Summary   string  `json:"summary"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	PhotoURL  string  `json:"photoUrl,omitempty"`
}

type Statistics struct {
	Teachers   int `json:"teachers"`
	Students   int `json:"students"`
	Parents    int `json:"parents"`
	Rooms      int `json:"rooms"`
	HomeVisits int `json:"homeVisits"`
}

type SheetLink struct {
	RoomID        string `json:"roomId"`
	SubjectID     string `json:"subjectId"`
	SpreadsheetID string `json:"spreadsheetId"`
	URL           string `json:"url"`
}
