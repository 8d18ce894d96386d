package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// MinLength — минимальная длина генерируемого пароля.
const MinLength = 16

const alphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!@#$%^&*"

// Generate возвращает криптографически случайный пароль длиной length
// из букв, цифр и спецсимволов. Длина меньше MinLength повышается
// до MinLength. Открытый текст пароля существует только в возвращаемом
// значении и нигде не сохраняется.
func Generate(length int) (string, error) {
	const op = "password.Generate"
	if length < MinLength {
		length = MinLength
	}
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}
