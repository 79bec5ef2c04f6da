// Package docs регистрирует описание API для swaggo/http-swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Вход администратора лиги",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "JWT токен"
					},
					"401": {
						"description": "Неверные учетные данные"
					}
				},
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.LoginInput"
						}
					}
				]
			}
		},
		"/players": {
			"get": {
				"tags": [
					"players"
				],
				"summary": "Список игроков",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"players"
				],
				"summary": "Создать игрока",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					}
				},
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.PlayerInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/players/{playerID}": {
			"get": {
				"tags": [
					"players"
				],
				"summary": "Получить игрока",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "playerID",
						"in": "path",
						"required": true
					}
				]
			},
			"patch": {
				"tags": [
					"players"
				],
				"summary": "Обновить игрока",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "playerID",
						"in": "path",
						"required": true
					},
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.PlayerUpdate"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"players"
				],
				"summary": "Деактивировать игрока",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "playerID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/players/{playerID}/auction": {
			"post": {
				"tags": [
					"auctions"
				],
				"summary": "Продать игрока с открытого рынка",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"409": {
						"description": "Нет подходящей группы"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "playerID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/bands": {
			"get": {
				"tags": [
					"bands"
				],
				"summary": "Список групп",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"bands"
				],
				"summary": "Создать группу",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					}
				},
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.BandInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/bands/{bandID}": {
			"get": {
				"tags": [
					"bands"
				],
				"summary": "Группа с участниками и статистикой",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "bandID",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/championships": {
			"get": {
				"tags": [
					"championships"
				],
				"summary": "Список титулов",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"championships"
				],
				"summary": "Создать титул",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					}
				},
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.ChampionshipInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/championships/{championshipID}/history": {
			"get": {
				"tags": [
					"championships"
				],
				"summary": "История правлений",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "championshipID",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/matches": {
			"get": {
				"tags": [
					"matches"
				],
				"summary": "Список матчей",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"matches"
				],
				"summary": "Создать матч",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"422": {
						"description": "Окно заморозки"
					}
				},
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.CreateMatchInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/matches/{matchID}/resolve": {
			"post": {
				"tags": [
					"matches"
				],
				"summary": "Разыграть матч",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"409": {
						"description": "Конфликт транзакции"
					},
					"422": {
						"description": "У матча нет соперника"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "matchID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tournaments": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Список турниров",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"tournaments"
				],
				"summary": "Создать турнир",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					}
				},
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/services.TournamentInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tournaments/{tournamentID}/league": {
			"post": {
				"tags": [
					"tournaments"
				],
				"summary": "Сгенерировать лигу",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "tournamentID",
						"in": "path",
						"required": true
					},
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/models.LeagueFormat"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tournaments/{tournamentID}/run": {
			"post": {
				"tags": [
					"tournaments"
				],
				"summary": "Довести турнир до чемпиона",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "tournamentID",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/tournaments/{tournamentID}/standings": {
			"get": {
				"tags": [
					"tournaments"
				],
				"summary": "Турнирная таблица",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "integer",
						"description": "ID",
						"name": "tournamentID",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/auctions": {
			"get": {
				"tags": [
					"auctions"
				],
				"summary": "История аукционов",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auctions/open-market": {
			"post": {
				"tags": [
					"auctions"
				],
				"summary": "Продать всех игроков открытого рынка",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/leaderboard/players": {
			"get": {
				"tags": [
					"leaderboard"
				],
				"summary": "Самые дорогие игроки",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/leaderboard/bands": {
			"get": {
				"tags": [
					"leaderboard"
				],
				"summary": "Самые богатые группы",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		}
	},
	"definitions": {
		"services.LoginInput": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"services.PlayerInput": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"gender": {
					"type": "string"
				},
				"band_id": {
					"type": "integer"
				},
				"wins": {
					"type": "integer"
				},
				"matches_played": {
					"type": "integer"
				},
				"net_worth": {
					"type": "number"
				},
				"spouse_id": {
					"type": "integer"
				}
			}
		},
		"services.PlayerUpdate": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"gender": {
					"type": "string"
				},
				"band_id": {
					"type": "integer"
				},
				"wins": {
					"type": "integer"
				},
				"matches_played": {
					"type": "integer"
				},
				"net_worth": {
					"type": "number"
				},
				"active": {
					"type": "boolean"
				},
				"spouse_id": {
					"type": "integer"
				},
				"clear_spouse": {
					"type": "boolean"
				}
			}
		},
		"services.BandInput": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"net_worth": {
					"type": "number"
				}
			}
		},
		"services.ChampionshipInput": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"hike": {
					"type": "number"
				},
				"player_id": {
					"type": "integer"
				}
			}
		},
		"services.CreateMatchInput": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"date": {
					"type": "string",
					"format": "date-time"
				},
				"tournament_id": {
					"type": "integer"
				},
				"championship_id": {
					"type": "integer"
				},
				"p1_id": {
					"type": "integer"
				},
				"p2_id": {
					"type": "integer"
				},
				"prize_amount": {
					"type": "number"
				},
				"entry_amount": {
					"type": "number"
				}
			}
		},
		"services.TournamentInput": {
			"type": "object",
			"properties": {
				"name": {
					"type": "string"
				},
				"date": {
					"type": "string",
					"format": "date-time"
				},
				"is_main_event": {
					"type": "boolean"
				}
			}
		},
		"models.LeagueFormat": {
			"type": "object",
			"properties": {
				"band_ids": {
					"type": "array",
					"items": {
						"type": "integer"
					}
				},
				"genders": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"name_prefix": {
					"type": "string"
				},
				"prize": {
					"type": "number"
				},
				"entry": {
					"type": "number"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0",
	Host:			 "",
	BasePath:		 "/",
	Schemes:		  []string{"http", "https"},
	Title:			"Wrestling League API",
	Description:	  "Матчи, титулы, турниры и аукционы лиги.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
