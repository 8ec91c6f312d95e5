package api

import "github.com/classhub/classhub-web/internal/model"

// Demo content served by the mock backend.  The sessions listed here are
// the initial occupancy; bookings made through the mock are tracked in the
// store on top of it.

const (
	demoInstructorID       = 1
	demoInstructorEmail    = "hobby@gmail.com"
	demoInstructorPassword = "classhub1234"
)

var demoInstructor = model.Instructor{
	ID:    demoInstructorID,
	Name:  "김강사",
	Email: demoInstructorEmail,
}

func demoClasses() map[string]model.Class {
	return map[string]model.Class{
		"test": {
			ID:        1,
			ClassCode: "test",
			Name:      "감성 가득 달항아리 만들기",
			ImageURLs: []string{
				"https://images.unsplash.com/photo-1610701596007-11502861dcfa?q=80&w=800&auto=format&fit=crop",
			},
			Description:         "부드러운 흙의 감촉을 느끼며 자신만의 **달항아리**를 빚어보세요.\n\n초보자도 쉽게 배울 수 있습니다.",
			Location:            "서울 성동구 연무장길 45",
			LocationDescription: "성수역 근처 카페 거리 내 위치",
			Preparation:         "백자토, 조각도, 앞치마 (모두 제공)",
			ParkingInfo:         "주차 공간이 협소하니 가급적 대중교통 이용 부탁드립니다.",
			Guidelines:          "흙이 묻을 수 있으니 편한 복장으로 오세요.",
			Policy:              "당일 취소는 환불이 불가합니다.",
			InstructorID:        demoInstructorID,
			InstructorName:      demoInstructor.Name,
			Sessions: []model.Session{
				{ID: 1, Date: "2026-12-15", StartTime: "14:00:00", EndTime: "16:00:00", Capacity: 8, CurrentNum: 3, Status: model.SessionRecruiting, Price: 60000},
				{ID: 2, Date: "2026-12-16", StartTime: "10:00:00", EndTime: "12:00:00", Capacity: 8, CurrentNum: 8, Status: model.SessionFull, Price: 60000},
				{ID: 3, Date: "2026-12-22", StartTime: "14:00:00", EndTime: "16:00:00", Capacity: 8, CurrentNum: 5, Status: model.SessionRecruiting, Price: 55000},
			},
		},
	}
}
