package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"MVDB/multimap"
)

func errOf(err error) Err {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, multimap.ErrKeyNotFound):
		return ErrNoKey
	case errors.Is(err, multimap.ErrEmpty):
		return ErrEmpty
	}
	return ErrIO
}

func (s *Session) apply(op *Op) Reply {
	mm := s.mm
	switch op.Type {
	case OpSet:
		mm.Set(op.Key, op.Value)
		return Reply{Err: OK}

	case OpGet:
		seq, err := mm.Get(op.Key)
		return Reply{Err: errOf(err), Value: list(seq)}

	case OpHas:
		return Reply{Err: OK, Value: strconv.FormatBool(mm.Contains(op.Key))}

	case OpPop:
		if op.HasDefault {
			return Reply{Err: OK, Value: mm.PopDefault(op.Key, op.Value)}
		}
		v, err := mm.Pop(op.Key)
		return Reply{Err: errOf(err), Value: v}

	case OpPopItem:
		k, v, err := mm.PopItem()
		if err != nil {
			return Reply{Err: errOf(err)}
		}
		return Reply{Err: OK, Value: k + " " + v}

	case OpDel:
		return Reply{Err: errOf(mm.Delete(op.Key))}

	case OpLen:
		return Reply{Err: OK, Value: strconv.Itoa(mm.Len())}

	case OpValues:
		return Reply{Err: OK, Value: list(mm.Values(op.Range))}

	case OpKeys:
		return Reply{Err: OK, Value: list(mm.Keys(op.Range))}

	case OpMin:
		k, err := mm.MinKey()
		return Reply{Err: errOf(err), Value: k}

	case OpMax:
		k, err := mm.MaxKey()
		return Reply{Err: errOf(err), Value: k}

	case OpShow:
		return Reply{Err: OK, Value: mm.String()}

	case OpWrite:
		if err := os.WriteFile(op.Key, []byte(mm.String()+"\n"), 0o644); err != nil {
			s.logger.Errorw("write failed", "file", op.Key, "error", err)
			return Reply{Err: ErrIO}
		}
		return Reply{Err: OK}
	}
	return Reply{Err: ErrUnknownOp}
}

func list(items []string) string {
	return fmt.Sprintf("[%s]", strings.Join(items, " "))
}
