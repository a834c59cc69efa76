package schoolapi

import (
	"context"
	"net/url"
)

// Teacher resource surface: profile, subjects, rooms, attendance,
// grades (including the sheet integration) and home visits.

func (c *Client) TeacherProfile(ctx context.Context) (Teacher, error) {
	var out Teacher
	err := c.get(ctx, "/teacher/profile", nil, &out)
	return out, err
}

func (c *Client) UpdateTeacherProfile(ctx context.Context, teacher Teacher) (Teacher, error) {
	var out Teacher
	err := c.put(ctx, "/teacher/profile", teacher, &out)
	return out, err
}

func (c *Client) TeacherSubjects(ctx context.Context) ([]Subject, error) {
	var out []Subject
	err := c.get(ctx, "/teacher/subjects", nil, &out)
	return out, err
}

func (c *Client) AddTeacherSubject(ctx context.Context, subjectID string) error {
	return c.post(ctx, "/teacher/subjects", map[string]string{"subjectId": subjectID}, nil)
}

func (c *Client) RemoveTeacherSubject(ctx context.Context, subjectID string) error {
	return c.delete(ctx, "/teacher/subjects/"+subjectID)
}

func (c *Client) AvailableSubjects(ctx context.Context) ([]Subject, error) {
	var out []Subject
	err := c.get(ctx, "/teacher/subjects/available", nil, &out)
	return out, err
}

func (c *Client) TeacherRooms(ctx context.Context) ([]Room, error) {
	var out []Room
	err := c.get(ctx, "/teacher/rooms", nil, &out)
	return out, err
}

func (c *Client) AddTeacherRoom(ctx context.Context, roomID string) error {
	return c.post(ctx, "/teacher/rooms", map[string]string{"roomId": roomID}, nil)
}

func (c *Client) RemoveTeacherRoom(ctx context.Context, roomID string) error {
	return c.delete(ctx, "/teacher/rooms/"+roomID)
}

func (c *Client) AvailableRooms(ctx context.Context, query url.Values) ([]Room, error) {
	var out []Room
	err := c.get(ctx, "/teacher/rooms/available", query, &out)
	return out, err
}

func (c *Client) RoomStudents(ctx context.Context, roomID string) ([]Student, error) {
	var out []Student
	err := c.get(ctx, "/teacher/rooms/"+roomID+"/students", nil, &out)
	return out, err
}

func (c *Client) StudentDetails(ctx context.Context, studentID string) (Student, error) {
	var out Student
	err := c.get(ctx, "/teacher/students/"+studentID, nil, &out)
	return out, err
}

func (c *Client) TakeHomeroomAttendance(ctx context.Context, sheet AttendanceSheet) error {
	return c.post(ctx, "/teacher/attendance/homeroom", sheet, nil)
}

func (c *Client) TakeSubjectAttendance(ctx context.Context, sheet AttendanceSheet) error {
	return c.post(ctx, "/teacher/attendance/subject", sheet, nil)
}

func (c *Client) AttendanceHistory(ctx context.Context, query url.Values) ([]AttendanceRecord, error) {
	var out []AttendanceRecord
	err := c.get(ctx, "/teacher/attendance/history", query, &out)
	return out, err
}

func (c *Client) Grades(ctx context.Context, roomID, subjectID string) ([]GradeEntry, error) {
	var out []GradeEntry
	err := c.get(ctx, "/teacher/grades/"+roomID+"/"+subjectID, nil, &out)
	return out, err
}

func (c *Client) SaveGradesBatch(ctx context.Context, entries []GradeEntry) error {
	return c.post(ctx, "/teacher/grades/batch", map[string]interface{}{"grades": entries}, nil)
}

func (c *Client) GradesSummary(ctx context.Context, roomID, subjectID string) (GradeSummary, error) {
	var out GradeSummary
	err := c.get(ctx, "/teacher/grades/summary/"+roomID+"/"+subjectID, nil, &out)
	return out, err
}

func (c *Client) DeleteGrade(ctx context.Context, studentID, subjectID string) error {
	return c.delete(ctx, "/teacher/grades/"+studentID+"/"+subjectID)
}

func (c *Client) CreateGradeSheet(ctx context.Context, roomID, subjectID string) (SheetLink, error) {
	var out SheetLink
	err := c.post(ctx, "/teacher/create-grade-sheet", map[string]string{
		"roomId":    roomID,
		"subjectId": subjectID,
	}, &out)
	return out, err
}

func (c *Client) GetGradeSheet(ctx context.Context, roomID, subjectID string) (SheetLink, error) {
	var out SheetLink
	err := c.get(ctx, "/teacher/grade-sheet/"+roomID+"/"+subjectID, nil, &out)
	return out, err
}

func (c *Client) ImportFromSheet(ctx context.Context, roomID, subjectID string) ([]GradeEntry, error) {
	var out []GradeEntry
	err := c.post(ctx, "/teacher/import-from-sheet", map[string]string{
		"roomId":    roomID,
		"subjectId": subjectID,
	}, &out)
	return out, err
}

func (c *Client) CreateHomeVisit(ctx context.Context, visit HomeVisit) (HomeVisit, error) {
	var out HomeVisit
	err := c.post(ctx, "/teacher/home-visits", visit, &out)
	return out, err
}

func (c *Client) StudentHomeVisits(ctx context.Context, studentID string) ([]HomeVisit, error) {
	var out []HomeVisit
	err := c.get(ctx, "/teacher/home-visits/"+studentID, nil, &out)
	return out, err
}

func (c *Client) StudentHealthRecords(ctx context.Context, studentID string) ([]HealthRecord, error) {
	var out []HealthRecord
	err := c.get(ctx, "/teacher/students/"+studentID+"/health", nil, &out)
	return out, err
}

func (c *Client) SaveHealthRecord(ctx context.Context, record HealthRecord) error {
	return c.post(ctx, "/teacher/students/"+record.StudentID+"/health", record, nil)
}
