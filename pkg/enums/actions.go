package enums

// ActionType labels user activity events written to the logs table.
type ActionType string

const (
	ActionStartBot     ActionType = "start_bot"
	ActionOpenWebApp   ActionType = "open_webapp"
	ActionOpenMenu     ActionType = "open_menu"
	ActionCallSupport  ActionType = "call_support"
	ActionStopSupport  ActionType = "stop_support"
	ActionAIQuestion   ActionType = "ai_question"
	ActionAIResponse   ActionType = "ai_response"
	ActionAIError      ActionType = "ai_error"
	ActionCartAdd      ActionType = "cart_add"
	ActionCartUpdate   ActionType = "cart_update"
	ActionCartRemove   ActionType = "cart_remove"
	ActionConfirmOrder ActionType = "confirm_order"
)
