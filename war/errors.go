package war

import "errors"

var ErrGameOver = errors.New("game already over")
