package session

import "github.com/DoyleJ11/cube-draft/internal/view"

// Gestures and queries below are safe to call from any goroutine. After the
// controller terminates gestures report false and queries return the final state.

func (c *Controller) Select(index int) bool {
	return c.ask(func(reply chan bool) Msg { return selectCard{index: index, reply: reply} })
}

func (c *Controller) SelectByName(name string) bool {
	return c.ask(func(reply chan bool) Msg { return selectName{name: name, reply: reply} })
}

// Confirm submits the selected card. It reports false when nothing was sent.
func (c *Controller) Confirm() bool {
	return c.ask(func(reply chan bool) Msg { return confirmPick{reply: reply} })
}

// Refresh asks for a fresh snapshot, reconnecting first if needed.
func (c *Controller) Refresh() {
	c.post(refresh{})
}

// Teardown terminates the controller and waits for its loop to exit. It is
// idempotent.
func (c *Controller) Teardown() {
	if c.post(teardown{}) {
		<-c.done
	}
}

func (c *Controller) Info() Info {
	reply := make(chan Info, 1)
	if !c.post(inspect{reply: reply}) {
		return c.info()
	}
	select {
	case in := <-reply:
		return in
	case <-c.done:
		return c.info()
	}
}

func (c *Controller) Phase() Phase { return c.Info().Phase }

// View returns the most recently rendered view model.
func (c *Controller) View() view.Model { return c.Info().View }

// Location is the redirect target recorded when no Navigate func was configured.
func (c *Controller) Location() string { return c.Info().Location }

func (c *Controller) ask(build func(chan bool) Msg) bool {
	reply := make(chan bool, 1)
	if !c.post(build(reply)) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-c.done:
		return false
	}
}
