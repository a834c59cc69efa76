package schoolapi

import (
	"context"
	"net/url"
)

// Student self-service surface: the logged-in student's own records.

func (c *Client) MyProfile(ctx context.Context) (Student, error) {
	var out Student
	err := c.get(ctx, "/student/profile", nil, &out)
	return out, err
}

func (c *Client) MyGrades(ctx context.Context, query url.Values) ([]GradeEntry, error) {
	var out []GradeEntry
	err := c.get(ctx, "/student/grades", query, &out)
	return out, err
}

func (c *Client) MyAttendance(ctx context.Context, query url.Values) ([]AttendanceRecord, error) {
	var out []AttendanceRecord
	err := c.get(ctx, "/student/attendance", query, &out)
	return out, err
}

func (c *Client) MyHealthRecords(ctx context.Context) ([]HealthRecord, error) {
	var out []HealthRecord
	err := c.get(ctx, "/student/health", nil, &out)
	return out, err
}

func (c *Client) MyHomeVisits(ctx context.Context) ([]HomeVisit, error) {
	var out []HomeVisit
	err := c.get(ctx, "/student/home-visits", nil, &out)
	return out, err
}
