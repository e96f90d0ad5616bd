// Package docs registra la documentación OpenAPI del servicio en swag.
// Se mantiene a mano junto con las anotaciones godoc de los handlers.
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
		"/health": {
			"get": {
				"tags": [
					"health"
				],
				"summary": "Health check",
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
		"/auth/register": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Registrar cuenta",
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
		"/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Login",
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
		"/auth/logout": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Logout",
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
		"/me": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Usuario actual",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"patch": {
				"tags": [
					"users"
				],
				"summary": "Actualizar mi perfil",
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
		"/home": {
			"get": {
				"tags": [
					"home"
				],
				"summary": "Dashboard del usuario actual",
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
		"/users": {
			"get": {
				"tags": [
					"users"
				],
				"summary": "Listar usuarios (admin)",
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
		"/users/{userID}": {
			"patch": {
				"tags": [
					"users"
				],
				"summary": "Actualizar usuario (admin)",
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
		"/vets/pending": {
			"get": {
				"tags": [
					"vets"
				],
				"summary": "Vets pendientes de aprobación (admin)",
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
		"/vets/approved": {
			"get": {
				"tags": [
					"vets"
				],
				"summary": "Vets aprobados",
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
		"/vets/{userID}/approve": {
			"post": {
				"tags": [
					"vets"
				],
				"summary": "Aprobar vet (admin)",
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
		"/vets/{userID}/deny": {
			"post": {
				"tags": [
					"vets"
				],
				"summary": "Rechazar vet (admin)",
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
		"/vets/nearby": {
			"get": {
				"tags": [
					"vets"
				],
				"summary": "Veterinarias cercanas",
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
		"/pets": {
			"get": {
				"tags": [
					"pets"
				],
				"summary": "Listar mascotas",
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
					"pets"
				],
				"summary": "Crear mascota",
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
		"/pets/{petID}": {
			"get": {
				"tags": [
					"pets"
				],
				"summary": "Obtener mascota",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"patch": {
				"tags": [
					"pets"
				],
				"summary": "Actualizar mascota",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"delete": {
				"tags": [
					"pets"
				],
				"summary": "Eliminar mascota",
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
		"/pets/{petID}/image": {
			"post": {
				"tags": [
					"pets"
				],
				"summary": "Subir imagen de la mascota",
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
		"/pets/{petID}/records": {
			"get": {
				"tags": [
					"records"
				],
				"summary": "Historial médico",
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
					"records"
				],
				"summary": "Agregar registro médico",
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
		"/pets/{petID}/documents": {
			"get": {
				"tags": [
					"documents"
				],
				"summary": "Documentos de la mascota",
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
					"documents"
				],
				"summary": "Subir documento",
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
		"/appointments": {
			"get": {
				"tags": [
					"appointments"
				],
				"summary": "Listar turnos",
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
					"appointments"
				],
				"summary": "Agendar turno",
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
		"/appointments/upcoming": {
			"get": {
				"tags": [
					"appointments"
				],
				"summary": "Próximo turno confirmado",
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
		"/appointments/{appointmentID}": {
			"get": {
				"tags": [
					"appointments"
				],
				"summary": "Obtener turno",
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
		"/appointments/{appointmentID}/confirm": {
			"post": {
				"tags": [
					"appointments"
				],
				"summary": "Confirmar turno",
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
		"/appointments/{appointmentID}/cancel": {
			"post": {
				"tags": [
					"appointments"
				],
				"summary": "Cancelar turno",
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
		"/appointments/{appointmentID}/complete": {
			"post": {
				"tags": [
					"appointments"
				],
				"summary": "Completar turno",
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
		"/admin/appointments/export": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "Exportar turnos a XLSX (admin)",
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
		"/admin/activity": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "Actividad reciente (admin)",
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
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo contiene la metadata exportada de la API.
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0",
	Host:			 "",
	BasePath:		 "/",
	Schemes:		  []string{},
	Title:			"Pawsera API",
	Description:	  "Backend de Pawsera: identidad, aprobación de vets, mascotas, turnos y dashboards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
