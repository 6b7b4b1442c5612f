package session

import (
	"github.com/DoyleJ11/cube-draft/internal/transport"
	"github.com/DoyleJ11/cube-draft/internal/view"
)

// Msg is anything the controller loop consumes. Every state change happens
// while handling exactly one Msg.
type Msg interface{ isSessionMsg() }

type transportEvent struct {
	ev transport.Event
}

type timerFired struct {
	token uint64
}

type selectCard struct {
	index int
	reply chan bool
}

type selectName struct {
	name  string
	reply chan bool
}

type confirmPick struct {
	reply chan bool
}

type refresh struct{}

type teardown struct{}

type inspect struct {
	reply chan Info
}

func (transportEvent) isSessionMsg() {}
func (timerFired) isSessionMsg()     {}
func (selectCard) isSessionMsg()     {}
func (selectName) isSessionMsg()     {}
func (confirmPick) isSessionMsg()    {}
func (refresh) isSessionMsg()        {}
func (teardown) isSessionMsg()       {}
func (inspect) isSessionMsg()        {}

// Info is a point-in-time view of a controller.
type Info struct {
	Phase    Phase
	View     view.Model
	Redirect string
	Location string
}
