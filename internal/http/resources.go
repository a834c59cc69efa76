package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PhumPatananiti/schooldesk/internal/schoolapi"
)

func (s *Server) mountAdminRoutes(r chi.Router) {
	r.Get("/teachers", func(w http.ResponseWriter, r *http.Request) {
		teachers, err := s.api.ListTeachers(r.Context(), r.URL.Query())
		s.respond(w, teachers, err)
	})
	r.Post("/teachers", func(w http.ResponseWriter, r *http.Request) {
		var teacher schoolapi.Teacher
		if err := decodeJSON(r, &teacher); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		created, err := s.api.CreateTeacher(r.Context(), teacher)
		s.respond(w, created, err)
	})
	r.Get("/teachers/{id}", func(w http.ResponseWriter, r *http.Request) {
		teacher, err := s.api.GetTeacher(r.Context(), chi.URLParam(r, "id"))
		s.respond(w, teacher, err)
	})
	r.Put("/teachers/{id}", func(w http.ResponseWriter, r *http.Request) {
		var teacher schoolapi.Teacher
		if err := decodeJSON(r, &teacher); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		updated, err := s.api.UpdateTeacher(r.Context(), chi.URLParam(r, "id"), teacher)
		s.respond(w, updated, err)
	})
	r.Delete("/teachers/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.respondStatus(w, s.api.DeleteTeacher(r.Context(), chi.URLParam(r, "id")))
	})
	r.Post("/teachers/{id}/homeroom", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			RoomID string `json:"roomId"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		s.respondStatus(w, s.api.AssignHomeroom(r.Context(), chi.URLParam(r, "id"), body.RoomID))
	})

	r.Get("/students", func(w http.ResponseWriter, r *http.Request) {
		students, err := s.api.ListStudents(r.Context(), r.URL.Query())
		s.respond(w, students, err)
	})
	r.Post("/students", func(w http.ResponseWriter, r *http.Request) {
		var student schoolapi.Student
		if err := decodeJSON(r, &student); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		created, err := s.api.CreateStudent(r.Context(), student)
		s.respond(w, created, err)
	})
	r.Get("/students/{id}", func(w http.ResponseWriter, r *http.Request) {
		student, err := s.api.GetStudent(r.Context(), chi.URLParam(r, "id"))
		s.respond(w, student, err)
	})
	r.Put("/students/{id}", func(w http.ResponseWriter, r *http.Request) {
		var student schoolapi.Student
		if err := decodeJSON(r, &student); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		updated, err := s.api.UpdateStudent(r.Context(), chi.URLParam(r, "id"), student)
		s.respond(w, updated, err)
	})
	r.Delete("/students/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.respondStatus(w, s.api.DeleteStudent(r.Context(), chi.URLParam(r, "id")))
	})

	r.Get("/parents", func(w http.ResponseWriter, r *http.Request) {
		parents, err := s.api.ListParents(r.Context())
		s.respond(w, parents, err)
	})
	r.Post("/parents", func(w http.ResponseWriter, r *http.Request) {
		var parent schoolapi.Parent
		if err := decodeJSON(r, &parent); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		created, err := s.api.CreateParent(r.Context(), parent)
		s.respond(w, created, err)
	})

	r.Get("/rooms", func(w http.ResponseWriter, r *http.Request) {
		rooms, err := s.api.ListRooms(r.Context())
		s.respond(w, rooms, err)
	})
	r.Post("/rooms", func(w http.ResponseWriter, r *http.Request) {
		var room schoolapi.Room
		if err := decodeJSON(r, &room); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		created, err := s.api.CreateRoom(r.Context(), room)
		s.respond(w, created, err)
	})
	r.Put("/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		var room schoolapi.Room
		if err := decodeJSON(r, &room); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		updated, err := s.api.UpdateRoom(r.Context(), chi.URLParam(r, "id"), room)
		s.respond(w, updated, err)
	})
	r.Delete("/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.respondStatus(w, s.api.DeleteRoom(r.Context(), chi.URLParam(r, "id")))
	})
	r.Delete("/rooms/{id}/homeroom", func(w http.ResponseWriter, r *http.Request) {
		s.respondStatus(w, s.api.RemoveHomeroom(r.Context(), chi.URLParam(r, "id")))
	})

	r.Get("/statistics", func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.api.GetStatistics(r.Context())
		s.respond(w, stats, err)
	})
}

func (s *Server) mountTeacherRoutes(r chi.Router) {
	r.Get("/profile", func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.api.TeacherProfile(r.Context())
		s.respond(w, profile, err)
	})
	r.Put("/profile", func(w http.ResponseWriter, r *http.Request) {
		var teacher schoolapi.Teacher
		if err := decodeJSON(r, &teacher); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		updated, err := s.api.UpdateTeacherProfile(r.Context(), teacher)
		s.respond(w, updated, err)
	})

	r.Get("/subjects", func(w http.ResponseWriter, r *http.Request) {
		subjects, err := s.api.TeacherSubjects(r.Context())
		s.respond(w, subjects, err)
	})
	r.Get("/subjects/available", func(w http.ResponseWriter, r *http.Request) {
		subjects, err := s.api.AvailableSubjects(r.Context())
		s.respond(w, subjects, err)
	})
	r.Post("/subjects/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.respondStatus(w, s.api.AddTeacherSubject(r.Context(), chi.URLParam(r, "id")))
	})
	r.Delete("/subjects/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.respondStatus(w, s.api.RemoveTeacherSubject(r.Context(), chi.URLParam(r, "id")))
	})

	r.Get("/rooms", func(w http.ResponseWriter, r *http.Request) {
		rooms, err := s.api.TeacherRooms(r.Context())
		s.respond(w, rooms, err)
	})
	r.Get("/rooms/available", func(w http.ResponseWriter, r *http.Request) {
		rooms, err := s.api.AvailableRooms(r.Context(), r.URL.Query())
		s.respond(w, rooms, err)
	})
	r.Post("/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.respondStatus(w, s.api.AddTeacherRoom(r.Context(), chi.URLParam(r, "id")))
	})
	r.Delete("/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.respondStatus(w, s.api.RemoveTeacherRoom(r.Context(), chi.URLParam(r, "id")))
	})
	r.Get("/rooms/{id}/students", func(w http.ResponseWriter, r *http.Request) {
		students, err := s.api.RoomStudents(r.Context(), chi.URLParam(r, "id"))
		s.respond(w, students, err)
	})

	r.Get("/students/{id}", func(w http.ResponseWriter, r *http.Request) {
		student, err := s.api.StudentDetails(r.Context(), chi.URLParam(r, "id"))
		s.respond(w, student, err)
	})
	r.Get("/students/{id}/home-visits", func(w http.ResponseWriter, r *http.Request) {
		visits, err := s.api.StudentHomeVisits(r.Context(), chi.URLParam(r, "id"))
		s.respond(w, visits, err)
	})
	r.Get("/students/{id}/health", func(w http.ResponseWriter, r *http.Request) {
		records, err := s.api.StudentHealthRecords(r.Context(), chi.URLParam(r, "id"))
		s.respond(w, records, err)
	})

	r.Post("/attendance/homeroom", func(w http.ResponseWriter, r *http.Request) {
		var sheet schoolapi.AttendanceSheet
		if err := decodeJSON(r, &sheet); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		s.respondStatus(w, s.api.TakeHomeroomAttendance(r.Context(), sheet))
	})
	r.Post("/attendance/subject", func(w http.ResponseWriter, r *http.Request) {
		var sheet schoolapi.AttendanceSheet
		if err := decodeJSON(r, &sheet); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		s.respondStatus(w, s.api.TakeSubjectAttendance(r.Context(), sheet))
	})
	r.Get("/attendance/history", func(w http.ResponseWriter, r *http.Request) {
		records, err := s.api.AttendanceHistory(r.Context(), r.URL.Query())
		s.respond(w, records, err)
	})

	r.Get("/grades", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		entries, err := s.api.Grades(r.Context(), q.Get("roomId"), q.Get("subjectId"))
		s.respond(w, entries, err)
	})
	r.Post("/grades/batch", func(w http.ResponseWriter, r *http.Request) {
		var entries []schoolapi.GradeEntry
		if err := decodeJSON(r, &entries); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		s.respondStatus(w, s.api.SaveGradesBatch(r.Context(), entries))
	})
	r.Get("/grades/summary", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		summary, err := s.api.GradesSummary(r.Context(), q.Get("roomId"), q.Get("subjectId"))
		s.respond(w, summary, err)
	})
	r.Delete("/grades/{studentId}/{subjectId}", func(w http.ResponseWriter, r *http.Request) {
		s.respondStatus(w, s.api.DeleteGrade(r.Context(), chi.URLParam(r, "studentId"), chi.URLParam(r, "subjectId")))
	})
	r.Post("/grades/sheet", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		link, err := s.api.CreateGradeSheet(r.Context(), q.Get("roomId"), q.Get("subjectId"))
		s.respond(w, link, err)
	})
	r.Get("/grades/sheet", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		link, err := s.api.GetGradeSheet(r.Context(), q.Get("roomId"), q.Get("subjectId"))
		s.respond(w, link, err)
	})
	r.Post("/grades/sheet/import", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		entries, err := s.api.ImportFromSheet(r.Context(), q.Get("roomId"), q.Get("subjectId"))
		s.respond(w, entries, err)
	})

	r.Post("/home-visits", func(w http.ResponseWriter, r *http.Request) {
		var visit schoolapi.HomeVisit
		if err := decodeJSON(r, &visit); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		created, err := s.api.CreateHomeVisit(r.Context(), visit)
		s.respond(w, created, err)
	})
	r.Post("/health", func(w http.ResponseWriter, r *http.Request) {
		var record schoolapi.HealthRecord
		if err := decodeJSON(r, &record); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		s.respondStatus(w, s.api.SaveHealthRecord(r.Context(), record))
	})
}

func (s *Server) mountStudentRoutes(r chi.Router) {
	r.Get("/profile", func(w http.ResponseWriter, r *http.Request) {
		profile, err := s.api.MyProfile(r.Context())
		s.respond(w, profile, err)
	})
	r.Get("/grades", func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.api.MyGrades(r.Context(), r.URL.Query())
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"grades": entries,
			"gpa":    schoolapi.GradePointAverage(entries),
		})
	})
	r.Get("/attendance", func(w http.ResponseWriter, r *http.Request) {
		records, err := s.api.MyAttendance(r.Context(), r.URL.Query())
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"records":        records,
			"attendanceRate": schoolapi.AttendanceRate(records),
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		records, err := s.api.MyHealthRecords(r.Context())
		s.respond(w, records, err)
	})
	r.Get("/home-visits", func(w http.ResponseWriter, r *http.Request) {
		visits, err := s.api.MyHomeVisits(r.Context())
		s.respond(w, visits, err)
	})
}

func (s *Server) respond(w http.ResponseWriter, payload interface{}, err error) {
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) respondStatus(w http.ResponseWriter, err error) {
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
