package messaging

// Button is a keyboard button. Data is the callback payload of inline buttons;
// reply keyboard buttons send their Text as a message.
type Button struct {
	Text string
	Data string
}

// Keyboard is a transport-neutral keyboard description.
type Keyboard struct {
	// Inline keyboards attach to a message; otherwise the keyboard replaces
	// the user's input keyboard.
	Inline      bool
	Rows        [][]Button
	Placeholder string
}

// InlineKeyboard builds an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]Button) *Keyboard {
	return &Keyboard{Inline: true, Rows: rows}
}

// ReplyKeyboard builds a persistent reply keyboard.
func ReplyKeyboard(placeholder string, rows ...[]Button) *Keyboard {
	return &Keyboard{Rows: rows, Placeholder: placeholder}
}

// Row groups buttons into one keyboard row.
func Row(buttons ...Button) []Button {
	return buttons
}

// Data returns an inline button carrying a callback payload.
func Data(text, data string) Button {
	return Button{Text: text, Data: data}
}

// Text returns a reply keyboard button.
func Text(text string) Button {
	return Button{Text: text}
}

// Buttons returns every button of the keyboard in row order.
func (k *Keyboard) Buttons() []Button {
	if k == nil {
		return nil
	}
	var out []Button
	for _, row := range k.Rows {
		out = append(out, row...)
	}
	return out
}

// FindData returns the first button with the given payload.
func (k *Keyboard) FindData(data string) (Button, bool) {
	for _, b := range k.Buttons() {
		if b.Data == data {
			return b, true
		}
	}
	return Button{}, false
}
