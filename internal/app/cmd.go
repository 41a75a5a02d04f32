package app

// Command representa el modo de arranque de la aplicación.
type Command string

const (
	// CommandServe arranca el servidor de la API.
	CommandServe Command = "serve"
	// CommandMigrate ejecuta las migraciones de base de datos.
	CommandMigrate Command = "migrate"
	// CommandHealthcheck verifica el estado del servidor.
	// Pensado para el healthcheck de Docker en entornos distroless.
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand interpreta el subcomando de los argumentos de línea de
// comandos. Sin argumentos, o con un comando desconocido, devuelve
// CommandServe.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
