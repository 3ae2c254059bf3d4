package shell

const (
	OK           = "OK"
	ErrNoKey     = "ErrNoKey"
	ErrEmpty     = "ErrEmpty"
	ErrArgs      = "ErrArgs"
	ErrUnknownOp = "ErrUnknownOp"
	ErrIO        = "ErrIO"
)

type Err string

type Reply struct {
	Err   Err
	Value string
}
