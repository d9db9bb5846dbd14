package feedback

import (
	core "github.com/frahmantamala/performance-tracker/internal/core/employee"
	feedbackDatamodel "github.com/frahmantamala/performance-tracker/internal/core/datamodel/feedback"
)

type Feedback = core.Feedback

func FromDataModel(m *feedbackDatamodel.Feedback) Feedback {
	return Feedback{
		ID:           m.ID,
		EmployeeID:   m.EmployeeID,
		Comments:     m.Comments,
		Rating:       m.Rating,
		FeedbackDate: m.FeedbackDate,
		CreatedBy:    m.CreatedBy,
	}
}

func ToDataModel(f Feedback) *feedbackDatamodel.Feedback {
	return &feedbackDatamodel.Feedback{
		ID:           f.ID,
		EmployeeID:   f.EmployeeID,
		Comments:     f.Comments,
		Rating:       f.Rating,
		FeedbackDate: f.FeedbackDate,
		CreatedBy:    f.CreatedBy,
	}
}

func FromDataModels(rows []*feedbackDatamodel.Feedback) []Feedback {
	out := make([]Feedback, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return out
}
