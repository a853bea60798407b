package planner

import "github.com/BuzzLyutic/day-weaver-api/internal/model"

const DefaultPageSize = 5

// ListKey идентифицирует независимый пагинационный курсор
type ListKey string

const (
	KeyPending ListKey = "pending"
	KeyDone    ListKey = "done"
	KeyExpired ListKey = "expired"
	KeySearch  ListKey = "search"
)

// Pages хранит запрошенные номера страниц по ключам списков.
// Change ничего не клампит: устаревший запрос самокорректируется
// в Resolve по актуальному размеру списка.
type Pages struct {
	size      int
	requested map[ListKey]int
}

func NewPages(size int) *Pages {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Pages{
		size:      size,
		requested: make(map[ListKey]int),
	}
}

func (p *Pages) Size() int { return p.size }

// Change запоминает запрошенную страницу для ключа
func (p *Pages) Change(key ListKey, page int) {
	p.requested[key] = page
}

// ResetSearch сбрасывает страницу поиска на 1 при смене поискового запроса
func (p *Pages) ResetSearch() {
	p.requested[KeySearch] = 1
}

// Resolve клампит запрошенную страницу в [1, ceil(total/size)];
// пустой список и отсутствующий/некорректный запрос дают 1.
func (p *Pages) Resolve(key ListKey, total int) int {
	page := p.requested[key]
	if page < 1 {
		page = 1
	}
	totalPages := TotalPages(total, p.size)
	if totalPages == 0 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Slice возвращает окно страницы page из items
func (p *Pages) Slice(items []model.Task, page int) []model.Task {
	return Slice(items, page, p.size)
}

func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Slice — окно [(page-1)*size, page*size); пустой вход дает пустой выход
func Slice(items []model.Task, page, size int) []model.Task {
	if len(items) == 0 || size <= 0 {
		return []model.Task{}
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []model.Task{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
