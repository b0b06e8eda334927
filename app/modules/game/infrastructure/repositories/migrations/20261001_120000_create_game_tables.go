package gamemigrations

func init() {
	Migrations.MustRegister(CreateGameTables, DropGameTables)
}
