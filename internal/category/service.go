package category

import "log/slog"

type Service struct {
	categories []*Category
	priorities []*Category
	logger     *slog.Logger
}

// NewService uses the same vocabularies the advisory prompt offers.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		categories: defaultCategories(),
		priorities: defaultPriorities(),
		logger:     logger,
	}
}

func toResponses(items []*Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, c.ToResponse())
	}
	return out
}

func (s *Service) GetAllCategories() []CategoryResponse {
	responses := toResponses(s.categories)
	s.logger.Debug("retrieved categories", "count", len(responses))
	return responses
}

func (s *Service) GetPriorities() []CategoryResponse {
	return toResponses(s.priorities)
}
