package core

// Display is the character display capability the control loop renders to
type Display interface {
	Init() error
	SendCommand(command uint8) error
	SendData(data uint8) error
	DisplayString(s string) error
	MoveCursor(row, col uint8) error
	Clear() error
	DisplayInteger(n int) error
	DefineCharacter(slot uint8, pattern [8]uint8) error
}
