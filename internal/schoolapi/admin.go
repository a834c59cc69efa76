package schoolapi

import (
	"context"
	"net/url"
)

// Admin resource surface. These mirror the /admin endpoint family.

func (c *Client) ListTeachers(ctx context.Context, query url.Values) ([]Teacher, error) {
	var out []Teacher
	err := c.get(ctx, "/admin/teachers", query, &out)
	return out, err
}

func (c *Client) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	var out Teacher
	err := c.get(ctx, "/admin/teachers/"+id, nil, &out)
	return out, err
}

func (c *Client) CreateTeacher(ctx context.Context, teacher Teacher) (Teacher, error) {
	var out Teacher
	err := c.post(ctx, "/admin/teachers", teacher, &out)
	return out, err
}

func (c *Client) UpdateTeacher(ctx context.Context, id string, teacher Teacher) (Teacher, error) {
	var out Teacher
	err := c.put(ctx, "/admin/teachers/"+id, teacher, &out)
	return out, err
}

func (c *Client) DeleteTeacher(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/teachers/"+id)
}

func (c *Client) AssignHomeroom(ctx context.Context, teacherID, roomID string) error {
	return c.put(ctx, "/admin/teachers/"+teacherID+"/homeroom", map[string]string{"roomId": roomID}, nil)
}

func (c *Client) ListStudents(ctx context.Context, query url.Values) ([]Student, error) {
	var out []Student
	err := c.get(ctx, "/admin/students", query, &out)
	return out, err
}

func (c *Client) GetStudent(ctx context.Context, id string) (Student, error) {
	var out Student
	err := c.get(ctx, "/admin/students/"+id, nil, &out)
	return out, err
}

func (c *Client) CreateStudent(ctx context.Context, student Student) (Student, error) {
	var out Student
	err := c.post(ctx, "/admin/students", student, &out)
	return out, err
}

func (c *Client) UpdateStudent(ctx context.Context, id string, student Student) (Student, error) {
	var out Student
	err := c.put(ctx, "/admin/students/"+id, student, &out)
	return out, err
}

func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/students/"+id)
}

func (c *Client) ListParents(ctx context.Context) ([]Parent, error) {
	var out []Parent
	err := c.get(ctx, "/admin/parents", nil, &out)
	return out, err
}

func (c *Client) CreateParent(ctx context.Context, parent Parent) (Parent, error) {
	var out Parent
	err := c.post(ctx, "/admin/parents", parent, &out)
	return out, err
}

func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	var out []Room
	err := c.get(ctx, "/admin/rooms", nil, &out)
	return out, err
}

func (c *Client) CreateRoom(ctx context.Context, room Room) (Room, error) {
	var out Room
	err := c.post(ctx, "/admin/rooms", room, &out)
	return out, err
}

func (c *Client) UpdateRoom(ctx context.Context, id string, room Room) (Room, error) {
	var out Room
	err := c.put(ctx, "/admin/rooms/"+id, room, &out)
	return out, err
}

func (c *Client) DeleteRoom(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/rooms/"+id)
}

func (c *Client) RemoveHomeroom(ctx context.Context, roomID string) error {
	return c.delete(ctx, "/admin/rooms/"+roomID+"/homeroom")
}

func (c *Client) GetStatistics(ctx context.Context) (Statistics, error) {
	var out Statistics
	err := c.get(ctx, "/admin/statistics", nil, &out)
	return out, err
}
