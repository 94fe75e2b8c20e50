package state

// stateless object, just used for state computing
type StateMachine struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
}

type Category uint

const (
	InBacklog Category = iota
	InProcess
	Done
	Abandoned
)

type State struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

type Transition struct {
	Name string `json:"name"`
	From State  `json:"from"`
	To   State  `json:"to"`
}

func NewStateMachine(states []State, transitions []Transition) *StateMachine {
	return &StateMachine{States: states, Transitions: transitions}
}

// AvailableTransitions filters transitions by state names, an empty name matches any state.
func (sm *StateMachine) AvailableTransitions(fromState string, toState string) []Transition {
	r := []Transition{}
	for _, transition := range sm.Transitions {
		if (fromState == "" || fromState == transition.From.Name) && (toState == "" || toState == transition.To.Name) {
			r = append(r, transition)
		}
	}
	return r
}

func (sm *StateMachine) CanTransit(fromState string, toState string) bool {
	if fromState == "" || toState == "" {
		return false
	}
	return len(sm.AvailableTransitions(fromState, toState)) > 0
}

func (sm *StateMachine) FindState(name string) (State, bool) {
	for _, s := range sm.States {
		if s.Name == name {
			return s, true
		}
	}
	return State{}, false
}

// IsTerminal reports whether no transition leaves the state.
func (sm *StateMachine) IsTerminal(name string) bool {
	return len(sm.AvailableTransitions(name, "")) == 0
}
