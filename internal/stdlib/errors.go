package stdlib

import "errors"

var errDivByZero = errors.New("stdlib: division by zero")
