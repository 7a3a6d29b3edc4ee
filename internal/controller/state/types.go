package state

// UserState шаг диалога, в котором находится пользователь
type UserState string

const (
	StateNone UserState = ""

	// Создание задачи через /addtask
	StateAddTaskTitle    UserState = "add_task_title"
	StateAddTaskSubject  UserState = "add_task_subject"
	StateAddTaskDueDate  UserState = "add_task_due_date"
	StateAddTaskPriority UserState = "add_task_priority"

	// Привязка аккаунта, когда /link вызван без аргументов
	StateLinkCredentials UserState = "link_credentials"
)

// TaskDraft поля задачи, собранные за шаги /addtask.
// DueDate уже нормализован в "2006-01-02".
type TaskDraft struct {
	Title    string
	Subject  string
	DueDate  string
	Priority string
}

// Complete true, когда собраны обязательные поля
func (d TaskDraft) Complete() bool {
	return d.Title != "" && d.DueDate != ""
}

type session struct {
	state UserState
	draft TaskDraft
}
