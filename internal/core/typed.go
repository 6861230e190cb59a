package core

import "fmt"

// ObjAs returns the current value of env.Self() as an O.
//
// A value of another type panics; inside a stage the World turns that panic
// into a HandlerFault.
func ObjAs[O any](env Env) O {
	return as[O](env.Self(), env.Obj())
}

// OldAs returns the old value of env.Self() as an O.
func OldAs[O any](env Env) O {
	return as[O](env.Self(), env.Old())
}

// ObjOfAs returns the current value of id as an O.
func ObjOfAs[O any](env Env, id ID) O {
	return as[O](id, env.ObjOf(id))
}

// OldOfAs returns the old value of id as an O.
func OldOfAs[O any](env Env, id ID) O {
	return as[O](id, env.OldOf(id))
}

// Get returns the current value of id in w as an O.
func Get[O any](w World, id ID) O {
	return as[O](id, w.Obj(id))
}

// GetOld returns the old value of id in w as an O.
func GetOld[O any](w World, id ID) O {
	return as[O](id, w.Old(id))
}

// SendAs sends m to id and returns the effect result as an E. A nil result
// yields the zero E.
func SendAs[E any](env Env, id ID, m Message) (E, error) {
	var zero E
	r, err := env.Send(id, m)
	if err != nil {
		return zero, err
	}
	if r == nil {
		return zero, nil
	}
	e, ok := r.(E)
	if !ok {
		return zero, fmt.Errorf("send %s to %s: result is %T, want %T", MessageName(m), id.Key(), r, zero)
	}
	return e, nil
}

func as[O any](id ID, v Object) O {
	o, ok := v.(O)
	if !ok {
		var zero O
		panic(fmt.Errorf("object %s is %T, want %T", id.Key(), v, zero))
	}
	return o
}
