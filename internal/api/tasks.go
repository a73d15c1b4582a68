package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/taskloop/taskloop-go/internal/dispatch"
)

// Task is a marketplace listing. Only the fields the product reads are
// decoded; everything else the server sends is ignored.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Budget      int64  `json:"budget"`
	Currency    string `json:"currency"`
	CreatedAt   string `json:"createdAt"`
}

// TaskDraft is the task wizard's submit/autosave payload. The wizard owns
// its field semantics; this layer just carries them.
type TaskDraft struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Budget      int64          `json:"budget,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// ListTasksParams filters and paginates the task list.
type ListTasksParams struct {
	Page     int
	PageSize int
	Status   string
	Search   string
}

func (p ListTasksParams) query() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// taskList is the collection payload shape.
type taskList struct {
	Items      []Task     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ListTasks returns one page of tasks.
func (c *Client) ListTasks(ctx context.Context, params ListTasksParams) ([]Task, Pagination, error) {
	var list taskList
	if err := c.get(ctx, "/tasks"+params.query(), &list); err != nil {
		return nil, Pagination{}, err
	}
	return list.Items, list.Pagination, nil
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.get(ctx, "/tasks/"+url.PathEscape(id), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask publishes a completed draft as a new task.
func (c *Client) CreateTask(ctx context.Context, draft TaskDraft) (*Task, error) {
	var task Task
	err := c.call(ctx, dispatch.Descriptor{
		Method:       http.MethodPost,
		Path:         "/tasks",
		Body:         draft,
		RequiresAuth: true,
	}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// SaveDraft autosaves wizard progress server-side and returns the draft id.
func (c *Client) SaveDraft(ctx context.Context, id string, draft TaskDraft) (string, error) {
	desc := dispatch.Descriptor{
		Method:       http.MethodPost,
		Path:         "/tasks/drafts",
		Body:         draft,
		RequiresAuth: true,
	}
	if id != "" {
		desc.Method = http.MethodPut
		desc.Path = "/tasks/drafts/" + url.PathEscape(id)
	}

	var saved struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, desc, &saved); err != nil {
		return "", err
	}
	if saved.ID == "" && id != "" {
		return id, nil
	}
	if saved.ID == "" {
		return "", fmt.Errorf("draft response missing id")
	}
	return saved.ID, nil
}
