// Package classification derives severity, keyword tags, vulnerability
// classes and compliance scores from incident data. Everything here is pure.
package classification

// KeywordGroup matches when any of its keywords occurs in the lowercase text
// blob of an incident.
type KeywordGroup struct {
	Name     string   `mapstructure:"name" validate:"required"`
	Keywords []string `mapstructure:"keywords" validate:"required,min=1,dive,required"`
}

type Config struct {
	TriggerGroups []KeywordGroup
	ActionGroups  []KeywordGroup
	Rules         []Rule
}

func DefaultConfig() Config {
	return Config{
		TriggerGroups: DefaultTriggerGroups(),
		ActionGroups:  DefaultActionGroups(),
		Rules:         DefaultRules(),
	}
}

type Engine struct {
	triggers []KeywordGroup
	actions  []KeywordGroup
	rules    []Rule
}

// New builds an engine. Empty tables in cfg fall back to the defaults.
func New(cfg Config) *Engine {
	e := &Engine{
		triggers: cfg.TriggerGroups,
		actions:  cfg.ActionGroups,
		rules:    cfg.Rules,
	}
	if len(e.triggers) == 0 {
		e.triggers = DefaultTriggerGroups()
	}
	if len(e.actions) == 0 {
		e.actions = DefaultActionGroups()
	}
	if len(e.rules) == 0 {
		e.rules = DefaultRules()
	}
	return e
}

func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}
