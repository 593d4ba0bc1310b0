package config

// DefaultConfigTOML is written to disk on first run.
const DefaultConfigTOML = `# plant-paladin configuration
#
# Every table is a plant. watering_interval is the number of days that may
# pass after a watering before "plant-paladin nag" reminds you again.
# Plant names are case-sensitive and must be unique.
#
# Removing a plant here also drops its watering record on the next run.

[monstera]
watering_interval = 7

[pothos]
watering_interval = 5

[snake-plant]
watering_interval = 14

[cactus]
watering_interval = 21
`
