package model

// Card es una tarjeta NFC vinculada a un usuario del condominio.
// El UID se almacena siempre en mayúsculas y es único entre todas las
// tarjetas, activas o no. La desactivación es un cambio de estado suave;
// las tarjetas nunca se eliminan físicamente.
type Card struct {
	ID       int64
	WPUserID int64
	CardUID  string
	Label    string
	Active   bool
	// CreatedAt se persiste como YYYY-MM-DD HH:mm:ss en la zona horaria civil.
	CreatedAt string
}

// CardWithOwner es una tarjeta unida con la identidad de su propietario.
type CardWithOwner struct {
	Card
	UserLogin   string
	DisplayName string
	UserEmail   string
}
