package editor

import (
	"errors"
	"strconv"
	"strings"

	"RoomEditor/internal/scene"
)

// QuantityDialog is the state of the quantity editor for one furniture
// instance. Error holds the inline message of the last rejected input.
type QuantityDialog struct {
	Open   bool
	Target scene.SelectionRef
	Input  string
	Error  string
}

func (c *Controller) QuantityDialog() QuantityDialog { return c.dialog }

// OpenQuantityDialog opens the dialog for the selected furniture, prefilled
// with its current quantity.
func (c *Controller) OpenQuantityDialog() error {
	if err := c.check(); err != nil {
		return err
	}
	ref := c.current.Selection
	item, ok := c.current.FindFurniture(ref)
	if !ok {
		return ErrNoSelection
	}
	c.dialog = QuantityDialog{
		Open:   true,
		Target: ref,
		Input:  strconv.Itoa(item.Quantity),
	}
	return nil
}

func (c *Controller) SetQuantityInput(text string) {
	if c.dialog.Open {
		c.dialog.Input = text
		c.dialog.Error = ""
	}
}

// ConfirmQuantity applies the typed quantity. Invalid input keeps the dialog
// open with the message in Error.
func (c *Controller) ConfirmQuantity() error {
	if !c.dialog.Open {
		return nil
	}
	q, err := strconv.Atoi(strings.TrimSpace(c.dialog.Input))
	if err != nil {
		verr := &scene.ValidationError{Field: "quantity", Message: "must be a whole number"}
		c.dialog.Error = verr.Message
		return verr
	}
	if err := c.SetQuantity(c.dialog.Target, q); err != nil {
		c.dialog.Error = inlineMessage(err)
		return err
	}
	c.dialog = QuantityDialog{}
	return nil
}

func (c *Controller) CancelQuantityDialog() {
	c.dialog = QuantityDialog{}
}

func inlineMessage(err error) string {
	var verr *scene.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
