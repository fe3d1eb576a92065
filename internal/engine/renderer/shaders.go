package renderer

// uMaterial follows the scene material order: 0 Lambert, 1 Phong, 2 Toon,
// 3 Normal, 4 Basic.

const sceneVertex = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uNormalMatrix;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vNormal;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vWorldPos = world.xyz;
	vNormal = mat3(uNormalMatrix) * aNormal;
	gl_Position = uProjection * uView * world;
}
`

const sceneFragment = `
#version 410 core

#define MAX_LIGHTS 32

in vec3 vWorldPos;
in vec3 vNormal;

uniform int uMaterial;
uniform int uSky;
uniform vec3 uColor;
uniform vec3 uEye;

uniform vec3 uAmbient;
uniform vec3 uSunDir;
uniform vec3 uSunColor;

uniform int uLightCount;
uniform vec3 uLightPos[MAX_LIGHTS];
uniform vec3 uLightDir[MAX_LIGHTS];
uniform vec3 uLightColor[MAX_LIGHTS];
uniform float uLightRange[MAX_LIGHTS];
uniform float uLightCutoff[MAX_LIGHTS];

out vec4 FragColor;

float band(float ndl) {
	if (uMaterial == 2) {
		if (ndl > 0.6) return 1.0;
		if (ndl > 0.2) return 0.5;
		return 0.0;
	}
	return ndl;
}

void addLight(vec3 n, vec3 v, vec3 l, vec3 color, inout vec3 diffuse, inout vec3 specular) {
	float ndl = max(dot(n, l), 0.0);
	diffuse += color * band(ndl);
	if (uMaterial == 1 && ndl > 0.0) {
		vec3 h = normalize(l + v);
		specular += color * pow(max(dot(n, h), 0.0), 30.0) * 0.5;
	}
}

void main() {
	if (uSky == 1) {
		float t = clamp(normalize(vWorldPos).y * 0.5 + 0.5, 0.0, 1.0);
		FragColor = vec4(mix(vec3(0.05, 0.05, 0.12), vec3(0.35, 0.55, 0.9), t), 1.0);
		return;
	}

	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}

	if (uMaterial == 3) {
		FragColor = vec4(n * 0.5 + 0.5, 1.0);
		return;
	}
	if (uMaterial == 4) {
		FragColor = vec4(uColor, 1.0);
		return;
	}

	vec3 v = normalize(uEye - vWorldPos);
	vec3 diffuse = uAmbient;
	vec3 specular = vec3(0.0);

	addLight(n, v, normalize(uSunDir), uSunColor, diffuse, specular);

	for (int i = 0; i < uLightCount; i++) {
		vec3 toLight = uLightPos[i] - vWorldPos;
		float dist = length(toLight);
		vec3 l = toLight / max(dist, 1e-4);

		float atten = 1.0;
		if (uLightRange[i] > 0.0) {
			atten = clamp(1.0 - dist / uLightRange[i], 0.0, 1.0);
			atten *= atten;
		}
		if (uLightCutoff[i] > -1.0 && dot(-l, uLightDir[i]) < uLightCutoff[i]) {
			continue;
		}
		addLight(n, v, l, uLightColor[i] * atten, diffuse, specular);
	}

	FragColor = vec4(uColor * diffuse + specular, 1.0);
}
`
