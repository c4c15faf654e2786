package service

import "errors"

// Сигнальные ошибки уровня сервиса. Хендлеры различают их через errors.Is
// и отображают в HTTP-статусы; любая другая ошибка считается ошибкой хранилища.
var (
	// ErrEmailTaken — email уже зарегистрирован.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials — неверная пара email/пароль или неактивная учётная запись.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDuplicateRecord — запись с такой датой и периодом уже существует.
	ErrDuplicateRecord = errors.New("record already exists for this date and period")
	// ErrRecordNotFound — запись не найдена или принадлежит другому пользователю.
	ErrRecordNotFound = errors.New("record not found")
	// ErrAlertNotFound — алерт не найден или принадлежит другому пользователю.
	ErrAlertNotFound = errors.New("alert not found")
	// ErrBackupNotFound — резервная копия не найдена или принадлежит другому пользователю.
	ErrBackupNotFound = errors.New("backup not found")
	// ErrForeignBackup — документ резервной копии создан другим пользователем.
	ErrForeignBackup = errors.New("backup does not belong to this user")
)
