// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stm

import (
	"code.hybscloud.com/kont"
)

// GetBind reads a cell and passes its value to f.
// Fuses Perform(Get[T]{Cell: c}) + Bind.
func GetBind[T Scalar, B any](c *Cell[T], f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Get[T]{Cell: c}), f)
}

// SetThen writes a cell and then continues with next.
// Fuses Perform(Set[T]{Cell: c, Value: v}) + Then.
func SetThen[T Scalar, B any](c *Cell[T], v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Set[T]{Cell: c, Value: v}), next)
}

// ModifyThen reads a cell, writes f of its value back, and continues
// with next. The read joins the read set, so a foreign commit to the
// cell between read and commit is a conflict.
// Fuses GetBind + SetThen.
func ModifyThen[T Scalar, B any](c *Cell[T], f func(T) T, next kont.Eff[B]) kont.Eff[B] {
	return GetBind(c, func(v T) kont.Eff[B] {
		return SetThen(c, f(v), next)
	})
}
